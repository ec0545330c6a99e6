package models

import "time"

// SubmissionReview records the external review office's final assessment.
// One row is inserted at the moment a submission transitions into approved
// and is immutable afterwards.
type SubmissionReview struct {
	ReviewID         int       `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID     int       `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID       int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	Remarks          string    `gorm:"column:remarks" json:"remarks"`
	EvidenceLink     string    `gorm:"column:evidence_link" json:"evidence_link"`
	IndexingBody     string    `gorm:"column:indexing_body" json:"indexing_body"`
	IncentivesAmount float64   `gorm:"column:incentives_amount" json:"incentives_amount"`
	Publisher        string    `gorm:"column:publisher" json:"publisher"`
	IsSpecialAward   bool      `gorm:"column:is_special_award" json:"is_special_award"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for SubmissionReview.
func (SubmissionReview) TableName() string {
	return "submission_reviews"
}
