// Package catalog scans an input directory for signal files, loads each into
// an in-memory numeric table, and exposes the validated set in a stable
// traversal order.
//
// Validation is two-pass: every candidate is loaded and judged independently,
// then the catalog is assembled from the accepted entries only. A file that
// fails to parse, has the wrong dimensionality, or exceeds the configured
// sample limit is excluded with a logged reason and is never visible
// downstream. The only failure Build reports to its caller is an empty
// catalog.
package catalog
