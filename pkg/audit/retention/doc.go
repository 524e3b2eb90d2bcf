// Package retention prunes old decision records so the audit database does
// not grow without bound. Pruning runs on a cron schedule and deletes by age;
// the retention window is a compliance decision, so the default is generous
// and configurable.
package retention
