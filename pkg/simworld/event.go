package simworld

import (
	"fmt"

	"github.com/narrativekit/kb/pkg/assembler"
	"github.com/narrativekit/kb/pkg/ids"
	"github.com/narrativekit/kb/pkg/kb"
)

// EventKind discriminates the variant carried by GameEvent.
type EventKind string

const (
	EventCombatAbilityUsed EventKind = "combat_ability_used"
	EventDialogueStarted   EventKind = "dialogue_started"
	EventLocationEntered   EventKind = "location_entered"
	EventEntityDied        EventKind = "entity_died"
	EventGeneric           EventKind = "generic"
)

// GameEvent is a hand-rolled sum type covering the four named event
// variants plus a catch-all Generic, implementing assembler.Event.
type GameEvent struct {
	Kind EventKind

	// CombatAbilityUsed fields.
	Source  ids.EntityID
	Target  ids.EntityID
	Ability string

	// DialogueStarted fields.
	Participants []ids.EntityID
	Topic        *string

	// LocationEntered fields.
	Entity     ids.EntityID
	AtLocation ids.LocationID

	// EntityDied fields.
	Killer *ids.EntityID

	// Generic fallback fields.
	Label string
	Tags  []kb.Tag
}

// CombatAbilityUsedEvent builds the CombatAbilityUsed variant.
func CombatAbilityUsedEvent(source, target ids.EntityID, ability string) GameEvent {
	return GameEvent{Kind: EventCombatAbilityUsed, Source: source, Target: target, Ability: ability}
}

// DialogueStartedEvent builds the DialogueStarted variant. topic may be nil.
func DialogueStartedEvent(participants []ids.EntityID, topic *string) GameEvent {
	return GameEvent{Kind: EventDialogueStarted, Participants: participants, Topic: topic}
}

// LocationEnteredEvent builds the LocationEntered variant.
func LocationEnteredEvent(entity ids.EntityID, location ids.LocationID) GameEvent {
	return GameEvent{Kind: EventLocationEntered, Entity: entity, AtLocation: location}
}

// EntityDiedEvent builds the EntityDied variant. killer may be nil.
func EntityDiedEvent(entity ids.EntityID, killer *ids.EntityID) GameEvent {
	return GameEvent{Kind: EventEntityDied, Entity: entity, Killer: killer}
}

// GenericEvent builds the catch-all variant, carrying its own tags
// directly since there is no structured shape to derive them from.
func GenericEvent(label string, tags ...kb.Tag) GameEvent {
	return GameEvent{Kind: EventGeneric, Label: label, Tags: tags}
}

// ToTags implements assembler.Event.
func (e GameEvent) ToTags() []kb.Tag {
	switch e.Kind {
	case EventCombatAbilityUsed:
		return []kb.Tag{
			kb.EntityTag(e.Source),
			kb.EntityTag(e.Target),
			kb.EventTypeTag("CombatAbilityUsed"),
		}
	case EventDialogueStarted:
		tags := make([]kb.Tag, 0, len(e.Participants)+1)
		for _, p := range e.Participants {
			tags = append(tags, kb.EntityTag(p))
		}
		tags = append(tags, kb.EventTypeTag("DialogueStarted"))
		if e.Topic != nil {
			tags = append(tags, kb.ConceptTag(*e.Topic))
		}
		return tags
	case EventLocationEntered:
		return []kb.Tag{
			kb.EntityTag(e.Entity),
			kb.LocationTag(e.AtLocation),
			kb.EventTypeTag("LocationEntered"),
		}
	case EventEntityDied:
		tags := []kb.Tag{kb.EntityTag(e.Entity), kb.EventTypeTag("EntityDied")}
		if e.Killer != nil {
			tags = append(tags, kb.EntityTag(*e.Killer))
		}
		return tags
	default:
		return e.Tags
	}
}

// PrimaryEntity implements assembler.Event: the entity whose current
// location, if any, also seeds spreading activation.
func (e GameEvent) PrimaryEntity() (ids.EntityID, bool) {
	switch e.Kind {
	case EventCombatAbilityUsed:
		return e.Source, true
	case EventDialogueStarted:
		if len(e.Participants) > 0 {
			return e.Participants[0], true
		}
		return ids.EntityID{}, false
	case EventLocationEntered, EventEntityDied:
		return e.Entity, true
	default:
		return ids.NilEntityID(), false
	}
}

// InvolvedEntities implements assembler.Event.
func (e GameEvent) InvolvedEntities() []ids.EntityID {
	switch e.Kind {
	case EventCombatAbilityUsed:
		return []ids.EntityID{e.Source, e.Target}
	case EventDialogueStarted:
		return e.Participants
	case EventLocationEntered:
		return []ids.EntityID{e.Entity}
	case EventEntityDied:
		out := []ids.EntityID{e.Entity}
		if e.Killer != nil {
			out = append(out, *e.Killer)
		}
		return out
	default:
		return nil
	}
}

// Describe implements assembler.Event, matching the four named
// variants. Generic returns its Label, or a debug-style rendering of
// the event when Label is empty.
func (e GameEvent) Describe(world assembler.WorldSnapshot) string {
	name := func(id ids.EntityID, fallback string) string {
		if c, ok := world.GetCharacter(id); ok {
			return c.Name()
		}
		return fallback
	}

	switch e.Kind {
	case EventCombatAbilityUsed:
		source := name(e.Source, "Unknown")
		target := name(e.Target, "Unknown")
		return fmt.Sprintf("%s used ability '%s' on %s", source, e.Ability, target)

	case EventDialogueStarted:
		names := make([]string, 0, len(e.Participants))
		for _, p := range e.Participants {
			if c, ok := world.GetCharacter(p); ok {
				names = append(names, c.Name())
			}
		}
		joined := joinAnd(names)
		if e.Topic != nil {
			return fmt.Sprintf("%s begin discussing %s", joined, *e.Topic)
		}
		return fmt.Sprintf("%s begin a conversation", joined)

	case EventLocationEntered:
		entityName := name(e.Entity, "Someone")
		locName := "an unknown place"
		if loc, ok := world.GetLocation(e.AtLocation); ok {
			locName = loc.Name
		}
		return fmt.Sprintf("%s enters %s", entityName, locName)

	case EventEntityDied:
		entityName := name(e.Entity, "Someone")
		if e.Killer != nil {
			return fmt.Sprintf("%s was killed by %s", entityName, name(*e.Killer, "an unknown assailant"))
		}
		return fmt.Sprintf("%s has died", entityName)

	default:
		if e.Label != "" {
			return e.Label
		}
		return fmt.Sprintf("%+v", e)
	}
}

func joinAnd(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		out := names[0]
		for _, n := range names[1:] {
			out += " and " + n
		}
		return out
	}
}
