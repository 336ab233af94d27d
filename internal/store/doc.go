// Package store persists the task collection to a single JSON document.
//
// The document is an array of tasks written with 2-space indentation and a
// trailing newline. Every save rewrites the whole file through a temp file
// and a rename, so readers see either the old or the new document.
//
// # Validation
//
// Loaded bytes are checked against the embedded JSON Schema
// (tasks.schema.json, draft 2020-12) before they are decoded. A file that is
// not JSON or does not match the schema is reported as a
// *CorruptStoreError listing every violation, unless the store was opened
// with CorruptReset, in which case it is treated as empty.
//
// # Locking
//
// Lock takes an advisory flock on "<file>.lock". Writers hold an exclusive
// lock across load, mutate and save; readers take a shared lock.
package store
