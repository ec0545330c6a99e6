package models

import "time"

// SubmissionStatusLog is the append-only audit trail of workflow transitions.
// Rows are written exactly once per successful transition, inside the same
// transaction as the submission update, and are never mutated or deleted.
type SubmissionStatusLog struct {
	LogID        int       `gorm:"primaryKey;column:log_id" json:"log_id"`
	SubmissionID int       `gorm:"column:submission_id" json:"submission_id"`
	OldStatus    Status    `gorm:"column:old_status" json:"old_status"`
	NewStatus    Status    `gorm:"column:new_status" json:"new_status"`
	ChangedBy    int       `gorm:"column:changed_by" json:"changed_by"`
	ChangedAt    time.Time `gorm:"column:changed_at" json:"changed_at"`
}

// TableName specifies the table for SubmissionStatusLog.
func (SubmissionStatusLog) TableName() string {
	return "submission_status_logs"
}
