// Package source abstracts where rule content comes from. The file source
// serves a rules directory on disk and backs the production cache; the
// memory source backs tests and embedded rule sets.
//
// Sources deal in raw bytes only. Parsing, validation, and caching live in
// the layers above; a source's job is to fetch content by rule path and
// enumerate what exists.
package source
