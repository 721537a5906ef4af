package kb

import (
	"sort"
	"sync"

	"github.com/narrativekit/kb/internal/logging"
	"github.com/narrativekit/kb/pkg/ids"
)

// Graph is the indexed store of facts and the weighted adjacency list
// of tag associations. It is safe for concurrent use: all mutating
// methods take an exclusive lock, all lookups take a shared lock, so
// an assembly can run against a stable snapshot while other readers
// proceed concurrently.
//
// Invariants (checked by the test suite, maintained by every mutating
// method below):
//
//  1. For every fact F and every tag T in F.Tags, F.ID is present in
//     tagToFacts[T], and every id in tagToFacts[T] refers to a live
//     fact whose tag set contains T.
//  2. For every Entity tag in F.Tags, F.ID is present in
//     factByEntity[EntityID]. Relationship/Secret/Trait facts also
//     register their referenced entities regardless of tag set.
//  3. Every stored Association weight lies in [0,1]; at most one edge
//     exists per (from, to) pair.
//  4. No dangling FactID remains in any secondary index after RemoveFact.
type Graph struct {
	mu sync.RWMutex

	facts        map[ids.FactID]*Fact
	tagToFacts   map[Tag]map[ids.FactID]struct{}
	associations map[Tag][]Association
	factByEntity map[ids.EntityID]map[ids.FactID]struct{}

	log logging.Logger
}

// Option configures a new Graph.
type Option func(*Graph)

// WithLogger attaches a structured logger to the graph. The default is
// logging.NopLogger().
func WithLogger(l logging.Logger) Option {
	return func(g *Graph) { g.log = l }
}

// New creates an empty knowledge graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		facts:        make(map[ids.FactID]*Fact),
		tagToFacts:   make(map[Tag]map[ids.FactID]struct{}),
		associations: make(map[Tag][]Association),
		factByEntity: make(map[ids.EntityID]map[ids.FactID]struct{}),
		log:          logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddFact inserts fact into the graph, indexing it by every tag it
// carries and, for Relationship/Secret/Trait fact types, by the
// entities those variants reference even when no matching Entity tag
// is present. Re-inserting an existing ID overwrites by full
// remove-then-add, so the invariants above hold unconditionally.
// Returns the fact's ID.
func (g *Graph) AddFact(f *Fact) ids.FactID {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.facts[f.ID]; exists {
		g.removeFactLocked(f.ID)
	}

	g.facts[f.ID] = f

	for tag := range f.Tags {
		g.indexTagLocked(tag, f.ID)
		if tag.Category == CategoryEntity {
			g.indexEntityStringLocked(tag.Payload, f.ID)
		}
	}

	for _, e := range f.Type.referencedEntities() {
		g.indexEntityLocked(e, f.ID)
	}

	g.log.Debug("fact added", "fact_id", f.ID.String(), "tags", len(f.Tags))
	return f.ID
}

// indexTagLocked records id under tag in tagToFacts. Caller holds the write lock.
func (g *Graph) indexTagLocked(tag Tag, id ids.FactID) {
	set, ok := g.tagToFacts[tag]
	if !ok {
		set = make(map[ids.FactID]struct{})
		g.tagToFacts[tag] = set
	}
	set[id] = struct{}{}
}

// indexEntityLocked records id under entity in factByEntity. Caller holds the write lock.
func (g *Graph) indexEntityLocked(entity ids.EntityID, id ids.FactID) {
	set, ok := g.factByEntity[entity]
	if !ok {
		set = make(map[ids.FactID]struct{})
		g.factByEntity[entity] = set
	}
	set[id] = struct{}{}
}

// indexEntityStringLocked parses an Entity tag's canonical payload back
// into an EntityID so it can be indexed in factByEntity alongside the
// tag index. Payload is always a canonical UUID string produced by
// EntityTag, so parse failure here would indicate a caller-constructed
// malformed tag; such tags are simply not entity-indexed.
func (g *Graph) indexEntityStringLocked(payload string, id ids.FactID) {
	entity, ok := parseEntityPayload(payload)
	if !ok {
		return
	}
	g.indexEntityLocked(entity, id)
}

// RemoveFact deletes the fact with the given id, stripping it from
// every secondary index. Returns the removed fact and true, or
// (nil, false) if no such fact existed.
func (g *Graph) RemoveFact(id ids.FactID) (*Fact, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeFactLocked(id)
}

func (g *Graph) removeFactLocked(id ids.FactID) (*Fact, bool) {
	f, ok := g.facts[id]
	if !ok {
		return nil, false
	}
	delete(g.facts, id)

	for tag := range f.Tags {
		if set, ok := g.tagToFacts[tag]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(g.tagToFacts, tag)
			}
		}
	}

	for entity, set := range g.factByEntity {
		delete(set, id)
		if len(set) == 0 {
			delete(g.factByEntity, entity)
		}
	}

	g.log.Debug("fact removed", "fact_id", id.String())
	return f, true
}

// GetFact returns the fact with the given id, if present.
func (g *Graph) GetFact(id ids.FactID) (*Fact, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.facts[id]
	return f, ok
}

// RevealFact marks the fact as revealed and returns true, or returns
// false if the fact does not exist. Reveal is monotonic: once true it
// is never cleared short of RemoveFact.
func (g *Graph) RevealFact(id ids.FactID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	f, ok := g.facts[id]
	if !ok {
		return false
	}
	f.Reveal()
	return true
}

// RevealFactStrict is RevealFact for callers that want a Go-idiomatic
// error instead of a bool — used by the CLI, where a missing fact ID
// is a user mistake that should be reported, not silently ignored.
func (g *Graph) RevealFactStrict(id ids.FactID) error {
	if !g.RevealFact(id) {
		return wrapError("RevealFact", ErrFactNotFound)
	}
	return nil
}

// RemoveFactStrict is RemoveFact for callers that want a Go-idiomatic
// error instead of an ok bool.
func (g *Graph) RemoveFactStrict(id ids.FactID) (*Fact, error) {
	f, ok := g.RemoveFact(id)
	if !ok {
		return nil, wrapError("RemoveFact", ErrFactNotFound)
	}
	return f, nil
}

// AddAssociation adds or updates a directed edge from -> to. If the
// edge already exists its weight becomes the average of the old and
// new weight (the new weight is clamped to [0,1] first); its Kind is
// left unchanged (frozen at first insertion — see DESIGN.md). Otherwise
// a new edge is appended with weight clamped to [0,1]. A self-edge (from == to) is rejected as ErrAssociationInvalid
// and nothing is recorded.
func (g *Graph) AddAssociation(from, to Tag, weight float64, kind AssociationKind) error {
	if from == to {
		return wrapError("AddAssociation", ErrAssociationInvalid)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addAssociationLocked(from, to, weight, kind)
	return nil
}

func (g *Graph) addAssociationLocked(from, to Tag, weight float64, kind AssociationKind) {
	weight = clamp(weight, 0, 1)
	edges := g.associations[from]
	for i := range edges {
		if edges[i].Target == to {
			edges[i].Weight = (edges[i].Weight + weight) / 2
			return
		}
	}
	g.associations[from] = append(edges, Association{
		Target: to,
		Weight: weight,
		Kind:   kind,
	})
}

// AddBidirectionalAssociation adds the same association in both
// directions (from->to and to->from) with identical weight and kind.
// A self-edge (a == b) is rejected as ErrAssociationInvalid.
func (g *Graph) AddBidirectionalAssociation(a, b Tag, weight float64, kind AssociationKind) error {
	if a == b {
		return wrapError("AddBidirectionalAssociation", ErrAssociationInvalid)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addAssociationLocked(a, b, weight, kind)
	g.addAssociationLocked(b, a, weight, kind)
	return nil
}

// GetAssociations returns the out-edges for tag in insertion order. The
// returned slice is a defensive copy; mutating it does not affect the graph.
func (g *Graph) GetAssociations(tag Tag) []Association {
	g.mu.RLock()
	defer g.mu.RUnlock()
	edges := g.associations[tag]
	out := make([]Association, len(edges))
	copy(out, edges)
	return out
}

// FactsByTag returns the facts indexed under tag, in no particular order.
func (g *Graph) FactsByTag(tag Tag) []*Fact {
	g.mu.RLock()
	defer g.mu.RUnlock()
	factIDs := g.tagToFacts[tag]
	out := make([]*Fact, 0, len(factIDs))
	for id := range factIDs {
		if f, ok := g.facts[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// FactsByEntity returns the facts indexed under entity, in no particular order.
func (g *Graph) FactsByEntity(entity ids.EntityID) []*Fact {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set := g.factByEntity[entity]
	out := make([]*Fact, 0, len(set))
	for id := range set {
		if f, ok := g.facts[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// UnrevealedSecrets returns the entity's Secret facts that have not yet
// been revealed.
func (g *Graph) UnrevealedSecrets(entity ids.EntityID) []*Fact {
	out := make([]*Fact, 0)
	for _, f := range g.FactsByEntity(entity) {
		if f.Type.Kind == FactSecret && !f.Revealed {
			out = append(out, f)
		}
	}
	return out
}

// FindFacts returns every fact for which predicate returns true.
func (g *Graph) FindFacts(predicate func(*Fact) bool) []*Fact {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Fact, 0)
	for _, f := range g.facts {
		if predicate(f) {
			out = append(out, f)
		}
	}
	return out
}

// ImportantFacts returns every fact with importance >= threshold.
func (g *Graph) ImportantFacts(threshold float64) []*Fact {
	return g.FindFacts(func(f *Fact) bool { return f.Importance >= threshold })
}

// FactCount returns the number of facts currently stored.
func (g *Graph) FactCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.facts)
}

// AllFacts returns every fact currently stored, in no particular order.
func (g *Graph) AllFacts() []*Fact {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Fact, 0, len(g.facts))
	for _, f := range g.facts {
		out = append(out, f)
	}
	return out
}

// BuildCoOccurrenceAssociations scans every fact's tag set, counts how
// often each unordered pair of tags co-occurs on the same fact, and
// adds a bidirectional CoOccurrence association per pair with weight
// min(1, ln(count)). A single co-occurrence (count=1) produces a
// zero-weight edge; it is still inserted deliberately — it contributes
// nothing to spreading activation but its presence records that the
// pair did co-occur at least once. Existing Direct edges on the same
// pair are averaged in via the normal AddAssociation rule.
func (g *Graph) BuildCoOccurrenceAssociations() {
	g.mu.Lock()
	defer g.mu.Unlock()

	counts := make(map[[2]Tag]int)
	for _, f := range g.facts {
		tags := make([]Tag, 0, len(f.Tags))
		for t := range f.Tags {
			tags = append(tags, t)
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i].Less(tags[j]) })

		for i := 0; i < len(tags); i++ {
			for j := i + 1; j < len(tags); j++ {
				counts[[2]Tag{tags[i], tags[j]}]++
			}
		}
	}

	for pair, count := range counts {
		weight := coOccurrenceWeight(count)
		g.addAssociationLocked(pair[0], pair[1], weight, AssociationCoOccurrence)
		g.addAssociationLocked(pair[1], pair[0], weight, AssociationCoOccurrence)
	}
}
