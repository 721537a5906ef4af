// Package assembler turns a game event, a knowledge graph, and a
// snapshot of world state into a structured, LLM-provider-agnostic
// context ready to drop into a prompt.
package assembler

import (
	"github.com/narrativekit/kb/pkg/ids"
	"github.com/narrativekit/kb/pkg/kb"
)

// WorldTime is the point-in-time reference the assembler reports in
// WorldContext. Unlike kb.WorldTime (a fact's creation stamp) this
// carries the season, since only world state tracks seasonal drift.
type WorldTime struct {
	Day    uint32
	Hour   uint8
	Minute uint8
	Season string
}

// Weather names an ambient weather condition, e.g. "clear", "stormy".
type Weather string

// Location is the minimal location data the assembler needs to name a
// place in an event description.
type Location struct {
	ID          ids.LocationID
	Name        string
	AmbientTags []string
}

// WorldSnapshot is the narrow read-only view of world state the
// assembler consumes. It is a boundary interface: the assembler never
// mutates world state and never depends on any concrete world
// implementation. pkg/simworld provides a reference implementation.
type WorldSnapshot interface {
	GetCharacter(id ids.EntityID) (Character, bool)
	EntityLocation(id ids.EntityID) (ids.LocationID, bool)
	GetLocation(id ids.LocationID) (Location, bool)
	Time() WorldTime
	Weather() Weather
	IsNight() bool
}

// Character is the narrow view of a character the assembler needs to
// build CharacterContext entries.
type Character interface {
	Name() string
	Title() (string, bool)
	CurrentHP() int
	MaxHP() int
	ActiveStatusEffects() []string
	PersonalityTraits() []string
}

// Event is the narrow view of a triggering game event the assembler
// consumes: the tags it contributes to spreading activation, the
// entities it involves, and its own human-readable description.
type Event interface {
	ToTags() []kb.Tag
	PrimaryEntity() (ids.EntityID, bool)
	InvolvedEntities() []ids.EntityID
	Describe(world WorldSnapshot) string
}
