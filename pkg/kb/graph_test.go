package kb

import (
	"errors"
	"math"
	"testing"

	"github.com/narrativekit/kb/pkg/ids"
)

func TestGraphAddFactIndexesTags(t *testing.T) {
	g := New()

	villain := ids.NewEntityID()
	f := NewFact("The villain plots in shadow.").
		WithTags(EntityTag(villain), ConceptTag("Magic"), FactionTag("Shadow Court"))

	id := g.AddFact(f)

	if got, ok := g.GetFact(id); !ok || got != f {
		t.Fatalf("GetFact(%v) = %v, %v; want %v, true", id, got, ok, f)
	}

	byTag := g.FactsByTag(ConceptTag("Magic"))
	if len(byTag) != 1 || byTag[0].ID != id {
		t.Errorf("FactsByTag(Magic) = %v, want [%v]", byTag, id)
	}

	byEntity := g.FactsByEntity(villain)
	if len(byEntity) != 1 || byEntity[0].ID != id {
		t.Errorf("FactsByEntity(villain) = %v, want [%v]", byEntity, id)
	}

	if g.FactCount() != 1 {
		t.Errorf("FactCount() = %d, want 1", g.FactCount())
	}
	if !g.HasTag(FactionTag("Shadow Court")) {
		t.Error("HasTag(Shadow Court) = false, want true")
	}
}

func TestGraphRemoveFactClearsIndexes(t *testing.T) {
	g := New()
	f := NewFact("temporary").WithTag(ConceptTag("Ephemeral"))
	id := g.AddFact(f)

	removed, ok := g.RemoveFact(id)
	if !ok || removed.ID != id {
		t.Fatalf("RemoveFact(%v) = %v, %v; want %v, true", id, removed, ok, f)
	}

	if _, ok := g.GetFact(id); ok {
		t.Error("GetFact after RemoveFact: found, want not found")
	}
	if g.HasTag(ConceptTag("Ephemeral")) {
		t.Error("HasTag(Ephemeral) after RemoveFact = true, want false")
	}
	if _, ok := g.RemoveFact(id); ok {
		t.Error("second RemoveFact on same id succeeded, want false")
	}
}

func TestGraphRemoveFactStrictReturnsErrFactNotFound(t *testing.T) {
	g := New()
	if _, err := g.RemoveFactStrict(ids.NewFactID()); !errors.Is(err, ErrFactNotFound) {
		t.Errorf("RemoveFactStrict on missing id: err = %v, want ErrFactNotFound", err)
	}

	f := NewFact("present")
	id := g.AddFact(f)
	removed, err := g.RemoveFactStrict(id)
	if err != nil || removed.ID != id {
		t.Errorf("RemoveFactStrict(%v) = %v, %v; want %v, nil", id, removed, err, f)
	}
}

func TestGraphRevealFactStrictReturnsErrFactNotFound(t *testing.T) {
	g := New()
	if err := g.RevealFactStrict(ids.NewFactID()); !errors.Is(err, ErrFactNotFound) {
		t.Errorf("RevealFactStrict on missing id: err = %v, want ErrFactNotFound", err)
	}

	f := NewFact("secretive").WithType(SecretFactType(ids.NewEntityID(), SecretMinor))
	id := g.AddFact(f)
	if err := g.RevealFactStrict(id); err != nil {
		t.Errorf("RevealFactStrict(%v) = %v, want nil", id, err)
	}
	if !f.Revealed {
		t.Error("fact not marked revealed after RevealFactStrict")
	}
}

func TestGraphAddAssociationRejectsSelfEdge(t *testing.T) {
	g := New()
	magic := ConceptTag("Magic")

	if err := g.AddAssociation(magic, magic, 0.5, AssociationDirect); !errors.Is(err, ErrAssociationInvalid) {
		t.Errorf("AddAssociation(magic, magic, ...) = %v, want ErrAssociationInvalid", err)
	}
	if edges := g.GetAssociations(magic); len(edges) != 0 {
		t.Errorf("edges after rejected self-edge = %v, want none recorded", edges)
	}

	if err := g.AddBidirectionalAssociation(magic, magic, 0.5, AssociationDirect); !errors.Is(err, ErrAssociationInvalid) {
		t.Errorf("AddBidirectionalAssociation(magic, magic, ...) = %v, want ErrAssociationInvalid", err)
	}
}

func TestGraphSecretAndTraitIndexWithoutEntityTag(t *testing.T) {
	g := New()
	holder := ids.NewEntityID()

	// No Entity tag attached — only the FactType references the entity.
	secret := NewFact("Holds a forbidden grimoire.").
		WithType(SecretFactType(holder, SecretMajor))
	secretID := g.AddFact(secret)

	trait := NewFact("Unshakeable calm.").
		WithType(TraitFactType(holder, "composed"))
	traitID := g.AddFact(trait)

	byEntity := g.FactsByEntity(holder)
	if len(byEntity) != 2 {
		t.Fatalf("FactsByEntity(holder) = %d facts, want 2", len(byEntity))
	}

	secrets := g.UnrevealedSecrets(holder)
	if len(secrets) != 1 || secrets[0].ID != secretID {
		t.Errorf("UnrevealedSecrets(holder) = %v, want [%v]", secrets, secretID)
	}

	if !g.RevealFact(secretID) {
		t.Fatal("RevealFact(secretID) = false, want true")
	}
	if len(g.UnrevealedSecrets(holder)) != 0 {
		t.Error("UnrevealedSecrets(holder) after reveal is non-empty")
	}

	if _, ok := g.GetFact(traitID); !ok {
		t.Error("trait fact missing after unrelated reveal")
	}
}

func TestGraphAddAssociationAveragesOnUpdate(t *testing.T) {
	g := New()
	magic := ConceptTag("Magic")
	combat := ConceptTag("Combat")

	g.AddAssociation(magic, combat, 0.8, AssociationDirect)
	edges := g.GetAssociations(magic)
	if len(edges) != 1 || edges[0].Weight != 0.8 {
		t.Fatalf("edges after first insert = %v, want weight 0.8", edges)
	}

	g.AddAssociation(magic, combat, 0.4, AssociationDirect)
	edges = g.GetAssociations(magic)
	if len(edges) != 1 {
		t.Fatalf("edges after second insert = %v, want single coalesced edge", edges)
	}
	if want := (0.8 + 0.4) / 2; edges[0].Weight != want {
		t.Errorf("edges[0].Weight = %v, want %v", edges[0].Weight, want)
	}
	if edges[0].Kind != AssociationDirect {
		t.Errorf("edges[0].Kind = %v, want frozen at %v", edges[0].Kind, AssociationDirect)
	}
}

func TestGraphAddAssociationClampsWeight(t *testing.T) {
	g := New()
	a, b := ConceptTag("A"), ConceptTag("B")
	g.AddAssociation(a, b, 4.2, AssociationDirect)
	edges := g.GetAssociations(a)
	if len(edges) != 1 || edges[0].Weight != 1 {
		t.Errorf("edges = %v, want single edge clamped to weight 1", edges)
	}
}

func TestGraphBuildCoOccurrenceAssociations(t *testing.T) {
	g := New()
	magic := ConceptTag("Magic")
	villain := ConceptTag("Villain")
	combat := ConceptTag("Combat")

	g.AddFact(NewFact("first").WithTags(magic, villain))
	g.AddFact(NewFact("second").WithTags(magic, villain))
	g.AddFact(NewFact("third").WithTags(magic, combat))

	g.BuildCoOccurrenceAssociations()

	magicVillain := associationTo(g.GetAssociations(magic), villain)
	magicCombat := associationTo(g.GetAssociations(magic), combat)

	if magicVillain == nil || magicCombat == nil {
		t.Fatalf("expected both Magic-Villain and Magic-Combat edges, got villain=%v combat=%v", magicVillain, magicCombat)
	}
	if magicVillain.Weight <= magicCombat.Weight {
		t.Errorf("Magic-Villain weight %v should exceed Magic-Combat weight %v (2 co-occurrences vs 1)", magicVillain.Weight, magicCombat.Weight)
	}
	if magicCombat.Weight != 0 {
		t.Errorf("single co-occurrence weight = %v, want ln(1) = 0", magicCombat.Weight)
	}
	if want := math.Log(2); math.Abs(magicVillain.Weight-want) > 1e-9 {
		t.Errorf("two-co-occurrence weight = %v, want ln(2) = %v", magicVillain.Weight, want)
	}

	// Bidirectional: Villain -> Magic must exist too.
	if associationTo(g.GetAssociations(villain), magic) == nil {
		t.Error("expected reverse Villain -> Magic edge")
	}
}

func TestGraphImportantFacts(t *testing.T) {
	g := New()
	g.AddFact(NewFact("minor").WithImportance(0.2))
	important := NewFact("major").WithImportance(0.9)
	g.AddFact(important)

	facts := g.ImportantFacts(0.5)
	if len(facts) != 1 || facts[0].ID != important.ID {
		t.Errorf("ImportantFacts(0.5) = %v, want [%v]", facts, important.ID)
	}
}

func associationTo(edges []Association, target Tag) *Association {
	for i := range edges {
		if edges[i].Target == target {
			return &edges[i]
		}
	}
	return nil
}
