package models

// Sync job outcome statuses.
const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncResult is the structured outcome of one reconciliation run. Job
// failures are reported through this type at the worker boundary rather than
// propagated to the scheduler driver.
type SyncResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
	Total    int    `json:"total"`
}

// SuccessResult builds a successful SyncResult with counts.
func SuccessResult(message string, inserted, updated, deleted, total int) SyncResult {
	return SyncResult{
		Status:   SyncStatusSuccess,
		Message:  message,
		Inserted: inserted,
		Updated:  updated,
		Deleted:  deleted,
		Total:    total,
	}
}

// ErrorResult builds a failed SyncResult carrying an opaque message.
func ErrorResult(message string) SyncResult {
	return SyncResult{
		Status:  SyncStatusError,
		Message: message,
	}
}
