package kb

import (
	"fmt"

	"github.com/narrativekit/kb/pkg/ids"
)

// Category discriminates the kind of node a Tag represents.
type Category string

const (
	CategoryEntity       Category = "entity"
	CategoryLocation     Category = "location"
	CategoryConcept      Category = "concept"
	CategoryFaction      Category = "faction"
	CategoryEventType    Category = "event"
	CategoryRelationType Category = "relation"
	CategoryCustom       Category = "custom"
)

// Tag is a typed node in the knowledge graph. It is a value type: two
// Tags with the same Category and Payload are equal and hash alike, so
// Tag can be used directly as a map key. The payload for Entity and
// Location tags is the canonical string form of the referenced ID;
// every other category carries a free-form name.
type Tag struct {
	Category Category
	Payload  string
}

// EntityTag creates a tag referencing a specific entity.
func EntityTag(id ids.EntityID) Tag {
	return Tag{Category: CategoryEntity, Payload: id.String()}
}

// LocationTag creates a tag referencing a specific location.
func LocationTag(id ids.LocationID) Tag {
	return Tag{Category: CategoryLocation, Payload: id.String()}
}

// ConceptTag creates a tag for a concept or theme, e.g. "Magic".
func ConceptTag(name string) Tag {
	return Tag{Category: CategoryConcept, Payload: name}
}

// FactionTag creates a tag for a faction or organization.
func FactionTag(name string) Tag {
	return Tag{Category: CategoryFaction, Payload: name}
}

// EventTypeTag creates a tag for an event type, e.g. "Battle".
func EventTypeTag(name string) Tag {
	return Tag{Category: CategoryEventType, Payload: name}
}

// RelationTypeTag creates a tag for a relationship type, e.g. "Enemy".
func RelationTypeTag(name string) Tag {
	return Tag{Category: CategoryRelationType, Payload: name}
}

// CustomTag creates a tag for caller-defined extensions.
func CustomTag(name string) Tag {
	return Tag{Category: CategoryCustom, Payload: name}
}

// String returns the canonical "<category>:<payload>" form. This is
// also the sole basis for Tag ordering (Less), so co-occurrence pair
// keys are canonical regardless of map iteration order.
func (t Tag) String() string {
	return fmt.Sprintf("%s:%s", t.Category, t.Payload)
}

// Less reports whether t sorts before other, by canonical string form.
// Callers must not rely on any other ordering (e.g. declaration order
// of categories) — String-based ordering is the only one defined.
func (t Tag) Less(other Tag) bool {
	return t.String() < other.String()
}
