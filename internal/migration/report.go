package migration

// Stage names used in reports and logs.
const (
	StageLocations = "locations"
	StageTables    = "tables"
	StageCustomers = "customers"
	StageBookings  = "bookings"
)

// StageReport counts what one mapper did. Guard is empty when the mapper
// processed legacy records, otherwise it names the guard that stopped it.
type StageReport struct {
	Stage     string `json:"stage"`
	Guard     string `json:"guard,omitempty"`
	Attempted int    `json:"attempted"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

// Migrated reports whether the stage inserted at least one row.
func (s StageReport) Migrated() bool { return s.Inserted > 0 }

// Report summarises one orchestrator run.
type Report struct {
	RunID       string        `json:"run_id"`
	FromVersion string        `json:"from_version"`
	ToVersion   string        `json:"to_version"`
	StartedAt   string        `json:"started_at"`
	FinishedAt  string        `json:"finished_at"`
	Migrated    bool          `json:"migrated"`
	Stages      []StageReport `json:"stages"`
}

// Inserted returns inserted row counts keyed by stage.
func (r Report) Inserted() map[string]int {
	out := make(map[string]int, len(r.Stages))
	for _, s := range r.Stages {
		out[s.Stage] = s.Inserted
	}
	return out
}
