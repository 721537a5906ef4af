// Package kb implements the associative knowledge graph: tagged,
// weighted, durable facts plus an adjacency list of tag associations.
//
// The graph is the storage layer underneath spreading activation
// (pkg/activation) and the context assembler (pkg/assembler). It keeps
// no notion of relevance or energy itself — it only indexes facts by
// tag and by entity, and tracks weighted associations between tags.
//
// # Key Components
//
//   - Tag: a typed, comparable identifier used as a graph node.
//   - Fact: a knowledge record carrying a tag set, importance, and visibility.
//   - Graph: the indexed fact store plus the tag adjacency list.
package kb
