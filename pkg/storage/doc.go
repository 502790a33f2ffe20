// Package storage persists extracted crops as .npy files under the output
// directory, with deterministic names derived from the sanitized tag, the
// source file stem, and the selected bounds.
package storage
