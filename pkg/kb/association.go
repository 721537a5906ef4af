package kb

// AssociationKind discriminates how an Association came to exist.
type AssociationKind string

const (
	// AssociationDirect is an explicitly author-defined edge.
	AssociationDirect AssociationKind = "direct"
	// AssociationCoOccurrence is derived from shared tags on the same fact.
	AssociationCoOccurrence AssociationKind = "co_occurrence"
	// AssociationSemantic is a conceptual relation supplied by the caller.
	AssociationSemantic AssociationKind = "semantic"
	// AssociationTemporal is a time-based relation supplied by the caller.
	AssociationTemporal AssociationKind = "temporal"
)

// Association is a directed, weighted edge from one tag to another.
// Weight is always clamped to [0,1] on insertion. At most one edge
// exists for a given (from, to) pair — Graph.AddAssociation coalesces
// repeated inserts by averaging weight; Kind is frozen at first
// insertion (see DESIGN.md, "association kind on re-add").
type Association struct {
	Target Tag
	Weight float64
	Kind   AssociationKind
}
