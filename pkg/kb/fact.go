package kb

import (
	"github.com/narrativekit/kb/pkg/ids"
)

// WorldTime is the minimal time reference a Fact is stamped with. It is
// deliberately narrow — kb has no notion of seasons or weather, those
// live in the world snapshot the assembler consumes (pkg/assembler).
type WorldTime struct {
	Day    uint32
	Hour   uint8
	Minute uint8
}

// FactKind discriminates the variant carried by FactType.
type FactKind string

const (
	FactRelationship FactKind = "relationship"
	FactEvent        FactKind = "event"
	FactSecret       FactKind = "secret"
	FactTrait        FactKind = "trait"
	FactLore         FactKind = "lore"
	FactQuest        FactKind = "quest"
	FactGeneric      FactKind = "generic"
)

// RelationshipKind enumerates the relationship types a Relationship
// fact can describe.
type RelationshipKind string

const (
	RelationFamily       RelationshipKind = "family"
	RelationFriend       RelationshipKind = "friend"
	RelationEnemy        RelationshipKind = "enemy"
	RelationRomantic     RelationshipKind = "romantic"
	RelationProfessional RelationshipKind = "professional"
	RelationRival        RelationshipKind = "rival"
	RelationMentor       RelationshipKind = "mentor"
	RelationAcquaintance RelationshipKind = "acquaintance"
)

// SecretSeverity ranks how damaging a Secret fact is if revealed.
type SecretSeverity string

const (
	SecretMinor    SecretSeverity = "minor"
	SecretModerate SecretSeverity = "moderate"
	SecretMajor    SecretSeverity = "major"
	SecretCritical SecretSeverity = "critical"
)

// FactSource records how a Fact entered the knowledge base.
type FactSource string

const (
	SourceInitial          FactSource = "initial"
	SourceLLMGenerated     FactSource = "llm_generated"
	SourcePlayerAction     FactSource = "player_action"
	SourceWorldEvent       FactSource = "world_event"
	SourceDialogueRevealed FactSource = "dialogue_revealed"
)

// FactType is a hand-rolled sum type (Go has no native variant types):
// Kind selects which of the fields below are meaningful. Fields unused
// by the selected Kind are left zero-valued.
type FactType struct {
	Kind FactKind

	// Relationship fields.
	EntityA      ids.EntityID
	EntityB      ids.EntityID
	Relationship RelationshipKind
	Sentiment    float64 // -1..1

	// Event fields.
	Description  string
	Participants []ids.EntityID
	Location     *ids.LocationID // nil if unspecified

	// Secret fields.
	Holder   ids.EntityID
	Severity SecretSeverity

	// Trait fields.
	TraitEntity ids.EntityID
	TraitName   string

	// Lore fields.
	LoreCategory string

	// Quest fields.
	QuestID ids.QuestID
}

// GenericFactType returns the zero-value "no particular type" variant.
func GenericFactType() FactType { return FactType{Kind: FactGeneric} }

// RelationshipFactType builds a Relationship variant, clamping sentiment to [-1,1].
func RelationshipFactType(a, b ids.EntityID, kind RelationshipKind, sentiment float64) FactType {
	return FactType{
		Kind:         FactRelationship,
		EntityA:      a,
		EntityB:      b,
		Relationship: kind,
		Sentiment:    clamp(sentiment, -1, 1),
	}
}

// EventFactType builds an Event variant.
func EventFactType(description string, participants []ids.EntityID, location *ids.LocationID) FactType {
	return FactType{
		Kind:         FactEvent,
		Description:  description,
		Participants: participants,
		Location:     location,
	}
}

// SecretFactType builds a Secret variant.
func SecretFactType(holder ids.EntityID, severity SecretSeverity) FactType {
	return FactType{Kind: FactSecret, Holder: holder, Severity: severity}
}

// TraitFactType builds a Trait variant.
func TraitFactType(entity ids.EntityID, name string) FactType {
	return FactType{Kind: FactTrait, TraitEntity: entity, TraitName: name}
}

// LoreFactType builds a Lore variant.
func LoreFactType(category string) FactType {
	return FactType{Kind: FactLore, LoreCategory: category}
}

// QuestFactType builds a Quest variant.
func QuestFactType(id ids.QuestID) FactType {
	return FactType{Kind: FactQuest, QuestID: id}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fact is a single piece of knowledge stored in the graph.
type Fact struct {
	ID            ids.FactID
	Content       string
	Type          FactType
	Tags          map[Tag]struct{}
	Timestamp     WorldTime
	Importance    float64 // clamped to [0,1]
	KnownToPlayer bool
	Revealed      bool
	ExpiresAt     *WorldTime
	Source        FactSource
}

// NewFact creates a fact with the given content and sane defaults:
// Generic type, no tags, importance 0.5, known to the player, not
// revealed, sourced as Initial.
func NewFact(content string) *Fact {
	return &Fact{
		ID:            ids.NewFactID(),
		Content:       content,
		Type:          GenericFactType(),
		Tags:          make(map[Tag]struct{}),
		Importance:    0.5,
		KnownToPlayer: true,
		Source:        SourceInitial,
	}
}

// WithType sets the fact's type variant and returns the fact for chaining.
func (f *Fact) WithType(t FactType) *Fact {
	f.Type = t
	return f
}

// WithTag adds a single tag and returns the fact for chaining.
func (f *Fact) WithTag(t Tag) *Fact {
	if f.Tags == nil {
		f.Tags = make(map[Tag]struct{})
	}
	f.Tags[t] = struct{}{}
	return f
}

// WithTags adds every tag in tags and returns the fact for chaining.
func (f *Fact) WithTags(tags ...Tag) *Fact {
	for _, t := range tags {
		f.WithTag(t)
	}
	return f
}

// WithImportance sets importance, clamped to [0,1], and returns the fact for chaining.
func (f *Fact) WithImportance(importance float64) *Fact {
	f.Importance = clamp(importance, 0, 1)
	return f
}

// WithKnownToPlayer sets known-to-player visibility and returns the fact for chaining.
func (f *Fact) WithKnownToPlayer(known bool) *Fact {
	f.KnownToPlayer = known
	return f
}

// WithSource sets provenance and returns the fact for chaining.
func (f *Fact) WithSource(source FactSource) *Fact {
	f.Source = source
	return f
}

// WithTimestamp sets the creation time and returns the fact for chaining.
func (f *Fact) WithTimestamp(t WorldTime) *Fact {
	f.Timestamp = t
	return f
}

// WithExpiry sets an advisory expiration time; the core never enforces
// it — Graph keeps expired facts until RemoveFact is called.
func (f *Fact) WithExpiry(t WorldTime) *Fact {
	f.ExpiresAt = &t
	return f
}

// HasTag reports whether the fact carries the given tag.
func (f *Fact) HasTag(t Tag) bool {
	_, ok := f.Tags[t]
	return ok
}

// InvolvesEntity reports whether Entity(e) is one of the fact's tags.
func (f *Fact) InvolvesEntity(e ids.EntityID) bool {
	return f.HasTag(EntityTag(e))
}

// Reveal marks the fact as revealed, which forces KnownToPlayer true.
// Reveal is monotonic: once true, Revealed never reverts outside of
// Graph.RemoveFact.
func (f *Fact) Reveal() {
	f.Revealed = true
	f.KnownToPlayer = true
}

// referencedEntities returns the entities that FactType implicitly
// references regardless of the fact's tag set, per the indexing rule
// in Graph.AddFact: Relationship/Secret/Trait facts register their
// entities in fact_by_entity even without a matching Entity tag.
func (ft FactType) referencedEntities() []ids.EntityID {
	switch ft.Kind {
	case FactRelationship:
		return []ids.EntityID{ft.EntityA, ft.EntityB}
	case FactSecret:
		return []ids.EntityID{ft.Holder}
	case FactTrait:
		return []ids.EntityID{ft.TraitEntity}
	default:
		return nil
	}
}
