// Package rsmarisa provides a static, space-efficient trie dictionary for Go.
//
// A trie is built once over a fixed key set and is immutable afterwards.
// Each stored key gets a dense integer id in [0, NumKeys); under the
// default layout ids follow lexicographic key order. Production-ready
// features include:
//
//   - Exact lookup, reverse lookup by id, common prefix search and
//     predictive (completion) search
//   - Suffix compression: unique key tails share one compact store
//   - Binary keys via an automatic tail mode upgrade
//   - Optional weight-ordered layout for cache-friendly hot-key ids
//   - Deterministic serialization with a checksummed, versioned format
//   - Atomic file saves, zero-copy memory-mapped loads
//   - Compressed containers (zstd, lz4) for cold storage
//   - Pluggable blob stores: local filesystem, in-memory, S3, MinIO
//
// # Quick Start
//
// Build a dictionary and query it:
//
//	ks := rsmarisa.NewKeyset()
//	ks.PushString("app")
//	ks.PushString("apple")
//	ks.PushString("application")
//
//	t, err := rsmarisa.Build(ks)
//	if err != nil {
//	    panic(err)
//	}
//
//	id, ok := t.LookupString("apple")
//	key, _ := t.ReverseLookup(id)
//
// Search with a reusable agent, one match per call:
//
//	agent := rsmarisa.NewAgent()
//	agent.SetQueryString("applications")
//	for t.CommonPrefixSearch(agent) {
//	    fmt.Println(agent.ID(), agent.KeyString())
//	}
//
// Or with range-over-func iterators:
//
//	for id, key := range t.Predictive([]byte("app")) {
//	    fmt.Println(id, string(key))
//	}
//
// # Persistence
//
// Save and reload, with identical bytes for identical key sets:
//
//	if err := t.Save("dict.trie"); err != nil {
//	    panic(err)
//	}
//	t2, err := rsmarisa.Load("dict.trie")
//
// Large read-only dictionaries can be memory-mapped instead of loaded:
//
//	t3, err := rsmarisa.Map("dict.trie")
//	defer t3.Close()
//
// # Ids
//
// Ids are stable for a given key set and configuration, dense, and
// survive save/load cycles, so they can index external arrays or be
// stored in other systems as compact key references.
package rsmarisa
