// Package cache holds parsed, validated decision graphs keyed by rule path.
//
// The cache is the production engine.GraphResolver. A lookup either returns
// the cached immutable graph or loads it from the source: parse, validate,
// fingerprint, then publish under the write lock. Publication is a pointer
// swap; evaluations already holding the old graph finish on it while new
// lookups see the new one.
//
// Hot reload comes in two flavors. Explicit invalidation drops entries so the
// next lookup reloads; the optional file watcher notices rule file changes
// and refreshes in the background, keeping the last good graph when the new
// content fails validation.
package cache
