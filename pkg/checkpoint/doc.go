// Package checkpoint persists the batch traversal position so an
// interrupted session resumes where it left off.
//
// The record is a small JSON object written atomically (temp file, fsync,
// rename). Recovery is deliberately forgiving: a missing or corrupt
// checkpoint falls back to the first file rather than failing the session,
// and a stored index outside the current catalog is clamped into range.
package checkpoint
