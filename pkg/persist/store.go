// Package persist provides a SQLite-backed round trip for a kb.Graph:
// SaveGraph writes every fact and association to disk, LoadGraph
// rebuilds an equivalent graph from what was written. It is not a
// query engine — lookups, scoring, and activation all stay in-memory
// in pkg/kb and pkg/activation; this package only exists so a graph
// built by the CLI or a long-running process survives a restart.
package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/narrativekit/kb/pkg/ids"
	"github.com/narrativekit/kb/pkg/kb"
)

// Store wraps a SQLite database holding one knowledge graph's
// facts, tags, and associations.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// schema lays out facts, their tags, and associations as three plain
// tables: facts hold their JSON-encoded payload,
// fact_tags is the many-to-many join the in-memory tagToFacts index is
// rebuilt from, and associations is the weighted tag adjacency list.
const schema = `
CREATE TABLE IF NOT EXISTS facts (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	payload TEXT NOT NULL, -- JSON-encoded Fact, minus Tags (see fact_tags)
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS fact_tags (
	fact_id TEXT NOT NULL,
	category TEXT NOT NULL,
	payload TEXT NOT NULL,
	FOREIGN KEY (fact_id) REFERENCES facts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS associations (
	from_category TEXT NOT NULL,
	from_payload  TEXT NOT NULL,
	to_category   TEXT NOT NULL,
	to_payload    TEXT NOT NULL,
	weight        REAL NOT NULL,
	kind          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fact_tags_fact ON fact_tags(fact_id);
CREATE INDEX IF NOT EXISTS idx_fact_tags_tag ON fact_tags(category, payload);
CREATE INDEX IF NOT EXISTS idx_associations_from ON associations(from_category, from_payload);
`

// InitSchema creates the tables and indexes if they do not already exist.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("persist: init schema: %w", err)
	}
	return nil
}

// factPayload is the JSON envelope stored per fact row. Tags are
// stored separately (fact_tags) so they can be queried and rebuilt as
// a proper index rather than re-parsed from a blob.
type factPayload struct {
	Type          kb.FactType   `json:"type"`
	Timestamp     kb.WorldTime  `json:"timestamp"`
	Importance    float64       `json:"importance"`
	KnownToPlayer bool          `json:"known_to_player"`
	Revealed      bool          `json:"revealed"`
	ExpiresAt     *kb.WorldTime `json:"expires_at,omitempty"`
	Source        kb.FactSource `json:"source"`
}

// SaveGraph writes every fact and association in graph to the store,
// replacing any prior contents. The write runs in a single
// transaction: either the whole graph lands or none of it does.
func (s *Store) SaveGraph(ctx context.Context, graph *kb.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persist: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"facts", "fact_tags", "associations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("persist: clear %s: %w", table, err)
		}
	}

	for _, f := range graph.AllFacts() {
		payload, err := json.Marshal(factPayload{
			Type:          f.Type,
			Timestamp:     f.Timestamp,
			Importance:    f.Importance,
			KnownToPlayer: f.KnownToPlayer,
			Revealed:      f.Revealed,
			ExpiresAt:     f.ExpiresAt,
			Source:        f.Source,
		})
		if err != nil {
			return fmt.Errorf("persist: encode fact %s: %w", f.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO facts (id, content, payload) VALUES (?, ?, ?)`,
			f.ID.String(), f.Content, string(payload),
		); err != nil {
			return fmt.Errorf("persist: insert fact %s: %w", f.ID, err)
		}

		for tag := range f.Tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO fact_tags (fact_id, category, payload) VALUES (?, ?, ?)`,
				f.ID.String(), string(tag.Category), tag.Payload,
			); err != nil {
				return fmt.Errorf("persist: insert fact_tag for %s: %w", f.ID, err)
			}
		}
	}

	// AllTags alone misses a tag that only ever appears as an
	// association source and indexes no fact; union the two so no
	// edge is silently dropped on save.
	seen := make(map[kb.Tag]struct{})
	sourceTags := append(graph.AllTags(), graph.AssociationSourceTags()...)
	for _, tag := range sourceTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		for _, assoc := range graph.GetAssociations(tag) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO associations (from_category, from_payload, to_category, to_payload, weight, kind)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				string(tag.Category), tag.Payload,
				string(assoc.Target.Category), assoc.Target.Payload,
				assoc.Weight, string(assoc.Kind),
			); err != nil {
				return fmt.Errorf("persist: insert association: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("persist: commit: %w", err)
	}
	return nil
}

// LoadGraph rebuilds a kb.Graph from the store's current contents.
// Any kb.Option (e.g. kb.WithLogger) is forwarded to kb.New.
func (s *Store) LoadGraph(ctx context.Context, opts ...kb.Option) (*kb.Graph, error) {
	graph := kb.New(opts...)

	rows, err := s.db.QueryContext(ctx, `SELECT id, content, payload FROM facts`)
	if err != nil {
		return nil, fmt.Errorf("persist: query facts: %w", err)
	}

	type loadedFact struct {
		id      string
		content string
		payload factPayload
	}
	var loaded []loadedFact

	for rows.Next() {
		var id, content, payloadJSON string
		if err := rows.Scan(&id, &content, &payloadJSON); err != nil {
			rows.Close()
			return nil, fmt.Errorf("persist: scan fact: %w", err)
		}
		var payload factPayload
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			rows.Close()
			return nil, fmt.Errorf("persist: decode fact %s: %w", id, err)
		}
		loaded = append(loaded, loadedFact{id: id, content: content, payload: payload})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("persist: iterate facts: %w", err)
	}
	rows.Close()

	for _, lf := range loaded {
		factID, err := parseFactID(lf.id)
		if err != nil {
			return nil, fmt.Errorf("persist: parse fact id %s: %w", lf.id, err)
		}

		tagRows, err := s.db.QueryContext(ctx,
			`SELECT category, payload FROM fact_tags WHERE fact_id = ?`, lf.id)
		if err != nil {
			return nil, fmt.Errorf("persist: query fact_tags for %s: %w", lf.id, err)
		}
		var tags []kb.Tag
		for tagRows.Next() {
			var category, payload string
			if err := tagRows.Scan(&category, &payload); err != nil {
				tagRows.Close()
				return nil, fmt.Errorf("persist: scan fact_tag for %s: %w", lf.id, err)
			}
			tags = append(tags, kb.Tag{Category: kb.Category(category), Payload: payload})
		}
		if err := tagRows.Err(); err != nil {
			tagRows.Close()
			return nil, fmt.Errorf("persist: iterate fact_tags for %s: %w", lf.id, err)
		}
		tagRows.Close()

		f := &kb.Fact{
			ID:            factID,
			Content:       lf.content,
			Type:          lf.payload.Type,
			Tags:          make(map[kb.Tag]struct{}, len(tags)),
			Timestamp:     lf.payload.Timestamp,
			Importance:    lf.payload.Importance,
			KnownToPlayer: lf.payload.KnownToPlayer,
			Revealed:      lf.payload.Revealed,
			ExpiresAt:     lf.payload.ExpiresAt,
			Source:        lf.payload.Source,
		}
		for _, t := range tags {
			f.Tags[t] = struct{}{}
		}
		graph.AddFact(f)
	}

	assocRows, err := s.db.QueryContext(ctx,
		`SELECT from_category, from_payload, to_category, to_payload, weight, kind FROM associations`)
	if err != nil {
		return nil, fmt.Errorf("persist: query associations: %w", err)
	}
	defer assocRows.Close()

	for assocRows.Next() {
		var fromCategory, fromPayload, toCategory, toPayload, kind string
		var weight float64
		if err := assocRows.Scan(&fromCategory, &fromPayload, &toCategory, &toPayload, &weight, &kind); err != nil {
			return nil, fmt.Errorf("persist: scan association: %w", err)
		}
		from := kb.Tag{Category: kb.Category(fromCategory), Payload: fromPayload}
		to := kb.Tag{Category: kb.Category(toCategory), Payload: toPayload}
		if err := graph.AddAssociation(from, to, weight, kb.AssociationKind(kind)); err != nil {
			return nil, fmt.Errorf("persist: restore association %s->%s: %w", from, to, err)
		}
	}
	if err := assocRows.Err(); err != nil {
		return nil, fmt.Errorf("persist: iterate associations: %w", err)
	}

	return graph, nil
}

func parseFactID(s string) (ids.FactID, error) {
	var id ids.FactID
	if err := (&id).UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
		return ids.FactID{}, err
	}
	return id, nil
}
