// Package history keeps the append-only audit trail of successful crops,
// the source of truth for report generation. Entries are mirrored to a
// JSONL file so the trail survives across sessions.
package history
