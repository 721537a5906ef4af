package simworld

import "github.com/narrativekit/kb/pkg/ids"

// StatusEffect names an active condition affecting a character, e.g. "poisoned".
type StatusEffect string

// Character is a participant in the world: a player or NPC with
// stats, status effects, and narrative-flavor fields (backstory,
// current goal, faction allegiances) that the core knowledge base
// never reads but that callers building richer events may want. It
// implements assembler.Character; name/title/personality are reached
// through accessor methods rather than fields so they satisfy that
// interface.
type Character struct {
	ID ids.EntityID

	Stats         Stats
	StatusEffects []StatusEffect
	Backstory     string
	CurrentGoal   string

	// FactionAllegiances maps a faction name to a reputation score, for
	// callers who want to derive faction tags; the core assembler never
	// reads it.
	FactionAllegiances map[string]int

	name        string
	title       *string
	personality []string
}

// NewCharacter creates a character with default stats and no status effects.
func NewCharacter(name string) *Character {
	return &Character{
		ID:                 ids.NewEntityID(),
		Stats:              NewStats(),
		FactionAllegiances: make(map[string]int),
		name:               name,
	}
}

// WithTitle sets an honorific/title and returns the character for chaining.
func (c *Character) WithTitle(title string) *Character {
	c.title = &title
	return c
}

// WithPersonalityTraits sets the character's personality trait list and returns the character for chaining.
func (c *Character) WithPersonalityTraits(traits ...string) *Character {
	c.personality = traits
	return c
}

// IsAlive reports whether the character's current hp is above zero.
func (c *Character) IsAlive() bool {
	return c.Stats.CurrentHP > 0
}

// HasStatus reports whether effect is currently active on the character.
func (c *Character) HasStatus(effect StatusEffect) bool {
	for _, e := range c.StatusEffects {
		if e == effect {
			return true
		}
	}
	return false
}

// Name implements assembler.Character.
func (c *Character) Name() string { return c.name }

// Title implements assembler.Character.
func (c *Character) Title() (string, bool) {
	if c.title == nil {
		return "", false
	}
	return *c.title, true
}

// CurrentHP implements assembler.Character.
func (c *Character) CurrentHP() int { return c.Stats.CurrentHP }

// MaxHP implements assembler.Character.
func (c *Character) MaxHP() int { return c.Stats.MaxHP }

// ActiveStatusEffects implements assembler.Character.
func (c *Character) ActiveStatusEffects() []string {
	out := make([]string, len(c.StatusEffects))
	for i, e := range c.StatusEffects {
		out[i] = string(e)
	}
	return out
}

// PersonalityTraits implements assembler.Character.
func (c *Character) PersonalityTraits() []string {
	return c.personality
}
