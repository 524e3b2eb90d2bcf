// Package storage provides decision record persistence. The SQLite backend
// is the production default (WAL mode, busy timeout, single file on disk);
// the memory backend serves tests and ephemeral deployments where the audit
// trail does not need to survive a restart.
package storage
