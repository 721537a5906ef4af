// Package ids defines the 128-bit random identifiers shared across the
// knowledge base, the context assembler, and the reference world
// implementation. Every identifier is a thin wrapper over uuid.UUID so
// that its canonical string form is always the standard 8-4-4-4-12 hex
// layout.
package ids

import (
	"encoding/json"

	"github.com/google/uuid"
)

// FactID uniquely identifies a Fact stored in a knowledge graph.
type FactID uuid.UUID

// NewFactID returns a new random FactID.
func NewFactID() FactID { return FactID(uuid.New()) }

// NilFactID returns the all-zero FactID, useful as a "not set" sentinel.
func NilFactID() FactID { return FactID(uuid.Nil) }

func (id FactID) String() string { return uuid.UUID(id).String() }

func (id FactID) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }

func (id *FactID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*id = FactID(u)
	return nil
}

// EntityID uniquely identifies a character, creature, or item in the
// world snapshot the core consumes through the WorldSnapshot interface.
type EntityID uuid.UUID

// NewEntityID returns a new random EntityID.
func NewEntityID() EntityID { return EntityID(uuid.New()) }

// NilEntityID returns the all-zero EntityID.
func NilEntityID() EntityID { return EntityID(uuid.Nil) }

func (id EntityID) String() string { return uuid.UUID(id).String() }

func (id EntityID) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }

func (id *EntityID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*id = EntityID(u)
	return nil
}

// LocationID uniquely identifies a location in the world snapshot.
type LocationID uuid.UUID

// NewLocationID returns a new random LocationID.
func NewLocationID() LocationID { return LocationID(uuid.New()) }

// NilLocationID returns the all-zero LocationID.
func NilLocationID() LocationID { return LocationID(uuid.Nil) }

func (id LocationID) String() string { return uuid.UUID(id).String() }

func (id LocationID) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }

func (id *LocationID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*id = LocationID(u)
	return nil
}

// QuestID uniquely identifies a quest referenced by a Quest fact type.
type QuestID uuid.UUID

// NewQuestID returns a new random QuestID.
func NewQuestID() QuestID { return QuestID(uuid.New()) }

// NilQuestID returns the all-zero QuestID.
func NilQuestID() QuestID { return QuestID(uuid.Nil) }

func (id QuestID) String() string { return uuid.UUID(id).String() }

func (id QuestID) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }

func (id *QuestID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*id = QuestID(u)
	return nil
}
