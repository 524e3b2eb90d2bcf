// Package audit defines the decision audit trail: what was decided, against
// which rule version, from which facts. Every evaluation that crosses the
// service boundary produces a DecisionRecord carrying the fact snapshot, the
// content fingerprint of the rule, the node and row trace, and timing, which
// together are sufficient to reproduce the decision later.
//
// Subpackages divide the work: recorder enqueues records asynchronously so
// evaluation latency never waits on storage, storage provides in-memory and
// SQLite backends, retention prunes old records on a schedule, and changelog
// keeps the who/what/when history of rule saves.
package audit
