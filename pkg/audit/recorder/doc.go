// Package recorder turns engine decisions into audit records and writes them
// asynchronously. Record returns as soon as the record is enqueued; a
// background worker drains the channel into storage, so evaluation latency
// never includes a disk write. When the channel stays full past the write
// timeout the record is dropped and counted rather than blocking the caller.
package recorder
