package persist_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/narrativekit/kb/pkg/ids"
	"github.com/narrativekit/kb/pkg/kb"
	"github.com/narrativekit/kb/pkg/persist"
)

func TestSaveLoadGraphRoundTrip(t *testing.T) {
	dbPath := fmt.Sprintf("test_persist_%d.db", os.Getpid())
	defer os.Remove(dbPath)

	ctx := context.Background()

	store, err := persist.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	original := kb.New()
	villain := ids.NewEntityID()
	magic := kb.ConceptTag("Magic")
	villainTag := kb.EntityTag(villain)

	original.AddAssociation(villainTag, magic, 0.75, kb.AssociationDirect)

	f := kb.NewFact("The villain studies forbidden magic").
		WithTags(villainTag, magic).
		WithImportance(0.8).
		WithSource(kb.SourceInitial)
	original.AddFact(f)

	if err := store.SaveGraph(ctx, original); err != nil {
		t.Fatalf("SaveGraph: %v", err)
	}

	loaded, err := store.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}

	if loaded.FactCount() != 1 {
		t.Fatalf("FactCount() = %d, want 1", loaded.FactCount())
	}

	got, ok := loaded.GetFact(f.ID)
	if !ok {
		t.Fatal("GetFact after round trip: not found")
	}
	if got.Content != f.Content {
		t.Errorf("Content = %q, want %q", got.Content, f.Content)
	}
	if got.Importance != f.Importance {
		t.Errorf("Importance = %v, want %v", got.Importance, f.Importance)
	}
	if !got.HasTag(villainTag) || !got.HasTag(magic) {
		t.Errorf("loaded fact missing tags, got %v", got.Tags)
	}

	edges := loaded.GetAssociations(villainTag)
	if len(edges) != 1 || edges[0].Target != magic || edges[0].Weight != 0.75 {
		t.Errorf("GetAssociations(villainTag) = %v, want single 0.75 edge to Magic", edges)
	}
}

// TestSaveLoadGraphPersistsFactlessAssociation guards against a save
// path that only walks fact-indexed tags: an association whose source
// tag indexes no fact of its own must still round-trip.
func TestSaveLoadGraphPersistsFactlessAssociation(t *testing.T) {
	dbPath := fmt.Sprintf("test_persist_factless_%d.db", os.Getpid())
	defer os.Remove(dbPath)

	ctx := context.Background()

	store, err := persist.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	original := kb.New()
	sorcery := kb.ConceptTag("Sorcery")
	ritual := kb.ConceptTag("Ritual")

	if err := original.AddAssociation(sorcery, ritual, 0.6, kb.AssociationDirect); err != nil {
		t.Fatalf("AddAssociation: %v", err)
	}

	if err := store.SaveGraph(ctx, original); err != nil {
		t.Fatalf("SaveGraph: %v", err)
	}

	loaded, err := store.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}

	edges := loaded.GetAssociations(sorcery)
	if len(edges) != 1 || edges[0].Target != ritual || edges[0].Weight != 0.6 {
		t.Errorf("GetAssociations(sorcery) = %v, want single 0.6 edge to Ritual", edges)
	}
}
