package kb

import (
	"math"

	"github.com/google/uuid"
	"github.com/narrativekit/kb/pkg/ids"
)

// coOccurrenceWeight maps a co-occurrence count to an association
// weight: min(1, ln(count)). A single co-occurrence yields ln(1)=0 —
// the edge is still created (see Graph.BuildCoOccurrenceAssociations).
func coOccurrenceWeight(count int) float64 {
	return math.Min(1, math.Log(float64(count)))
}

// parseEntityPayload recovers the EntityID backing an Entity tag's
// canonical string payload.
func parseEntityPayload(payload string) (ids.EntityID, bool) {
	u, err := uuid.Parse(payload)
	if err != nil {
		return ids.EntityID{}, false
	}
	return ids.EntityID(u), true
}

// AllTags returns every tag that indexes at least one fact, in no
// particular order. Tags that only appear as association endpoints
// (with no fact attached) are not included.
func (g *Graph) AllTags() []Tag {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Tag, 0, len(g.tagToFacts))
	for t := range g.tagToFacts {
		out = append(out, t)
	}
	return out
}

// TagCount returns the number of distinct tags indexing at least one fact.
func (g *Graph) TagCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tagToFacts)
}

// HasTag reports whether any fact is indexed under tag.
func (g *Graph) HasTag(tag Tag) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.tagToFacts[tag]
	return ok
}

// AssociationSourceTags returns every tag that has at least one
// outgoing association, in no particular order. Unlike AllTags, this
// includes tags that carry no fact of their own (e.g. a concept tag
// associated directly via AddAssociation before any fact references
// it) — callers that need to enumerate every edge in the graph (such
// as a full serialization pass) must range over this, not AllTags.
func (g *Graph) AssociationSourceTags() []Tag {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Tag, 0, len(g.associations))
	for t := range g.associations {
		out = append(out, t)
	}
	return out
}
