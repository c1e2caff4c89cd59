// Package queue defines message payloads exchanged over the message broker.
package queue

// MigrationCompletedQueue is the durable queue migration events go to.
const MigrationCompletedQueue = "migration.completed"

// MigrationCompletedEvent is published once the legacy migration has run
// and its completion flag is persisted. It carries enough detail for
// downstream consumers to log or alert without querying the database.
type MigrationCompletedEvent struct {
    RunID       string         `json:"run_id"`
    Migrated    bool           `json:"migrated"`
    FromVersion string         `json:"from_version"`
    ToVersion   string         `json:"to_version"`
    Inserted    map[string]int `json:"inserted"`
    Skipped     map[string]int `json:"skipped"`
    CompletedAt string         `json:"completed_at"`
}
