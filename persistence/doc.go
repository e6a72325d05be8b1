// Package persistence defines the on-disk format envelope for serialized
// tries and the file-level plumbing around it: the fixed header, CRC32
// integrity checking, atomic save-to-file, buffered load, read-only memory
// mapping, and optional compressed containers.
//
// The byte layout written here is a cross-implementation contract: two
// independent implementations building the same key set with the same
// configuration must produce byte-identical files. Nothing in this package
// depends on the host's native struct layout; every field is written
// explicitly in little-endian order.
package persistence
