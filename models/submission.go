package models

import "time"

// Submission represents the submissions table. Status is only ever mutated
// through the workflow service; reference_number stays NULL until a
// facilitator accepts the submission and never reverts afterwards.
type Submission struct {
	SubmissionID         int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	ReferenceNumber      *string    `gorm:"column:reference_number" json:"reference_number,omitempty"`
	Status               Status     `gorm:"column:status" json:"status"`
	ResearcherID         int        `gorm:"column:researcher_id" json:"researcher_id"`
	DepartmentID         int        `gorm:"column:department_id" json:"department_id"`
	CampusID             int        `gorm:"column:campus_id" json:"campus_id"`
	RejectedBy           *int       `gorm:"column:rejected_by" json:"rejected_by,omitempty"`
	ReferenceGeneratedBy *int       `gorm:"column:reference_generated_by" json:"reference_generated_by,omitempty"`
	Title                string     `gorm:"column:title" json:"title"`
	Abstract             string     `gorm:"column:abstract" json:"abstract"`
	Category             string     `gorm:"column:category" json:"category"` // publication|innovation
	FilePath             *string    `gorm:"column:file_path" json:"file_path,omitempty"`
	SubmissionDate       time.Time  `gorm:"column:submission_date" json:"submission_date"`
	UpdatedAt            *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`

	// Relations
	Researcher *User       `gorm:"foreignKey:ResearcherID" json:"researcher,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Campus     *Campus     `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
}

// TableName overrides the table name for Submission.
func (Submission) TableName() string {
	return "submissions"
}
