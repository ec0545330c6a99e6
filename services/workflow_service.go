package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"research-portal-api/models"

	"gorm.io/gorm"
)

// ActorScope is the authenticated caller's identity and organizational
// bounds, supplied by the auth middleware. The engine trusts these values
// and only checks that they match the submission being acted on.
type ActorScope struct {
	UserID       int `json:"user_id"`
	RoleID       int `json:"role_id"`
	DepartmentID int `json:"department_id"`
	CampusID     int `json:"campus_id"`
}

// ReviewInput carries the external review fields required when a submission
// is approved.
type ReviewInput struct {
	Remarks          string  `json:"remarks"`
	EvidenceLink     string  `json:"evidence_link"`
	IndexingBody     string  `json:"indexing_body"`
	IncentivesAmount float64 `json:"incentives_amount"`
	Publisher        string  `json:"publisher"`
	IsSpecialAward   bool    `json:"is_special_award"`
}

// TransitionInput holds the transition-specific extra data.
type TransitionInput struct {
	ReferenceNumber string       `json:"reference_number"`
	Review          *ReviewInput `json:"review"`
}

// statusNotifier delivers the best-effort researcher notification after a
// transition commits. Failures are logged, never propagated.
type statusNotifier interface {
	NotifyStatusChange(submission *models.Submission, newStatus models.Status, actorID int) error
}

// WorkflowService validates and applies submission status transitions. The
// submission update, the status log append and the review insert (on
// approval) happen in a single transaction; no transition is considered
// applied unless its log entry committed.
type WorkflowService struct {
	db       *gorm.DB
	notifier statusNotifier
}

func NewWorkflowService(db *gorm.DB, notifier statusNotifier) *WorkflowService {
	return &WorkflowService{db: db, notifier: notifier}
}

// ApplyTransition moves a submission to target on behalf of actor. It
// returns the updated submission, or a WorkflowError describing why the
// transition was refused. A refused transition performs no writes.
func (s *WorkflowService) ApplyTransition(submissionID int, actor ActorScope, target models.Status, input TransitionInput) (*models.Submission, error) {
	if !target.IsValid() {
		return nil, workflowErr(ErrValidationFailed, "unknown status '%s'", target)
	}

	var submission models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflowErr(ErrNotFound, "submission %d not found", submissionID)
		}
		return nil, persistenceErr("failed to load submission", err)
	}

	if err := authorizeScope(actor, &submission); err != nil {
		return nil, err
	}

	// Terminal states accept nothing, not even a repeat of themselves.
	if submission.Status.IsTerminal() {
		return nil, workflowErr(ErrInvalidTransition, "submission %d is already %s", submissionID, submission.Status)
	}

	// Idempotent no-op: repeating the current status writes nothing, unless
	// a facilitator re-accepts with a different reference number.
	if target == submission.Status {
		reapply := target == models.StatusAcceptedByFacilitator &&
			submission.ReferenceNumber != nil &&
			strings.TrimSpace(input.ReferenceNumber) != "" &&
			strings.TrimSpace(input.ReferenceNumber) != *submission.ReferenceNumber
		if !reapply {
			return &submission, nil
		}
	} else if !submission.Status.CanTransitionTo(target) {
		return nil, workflowErr(ErrInvalidTransition, "cannot move from %s to %s", submission.Status, target)
	}

	reference := strings.TrimSpace(input.ReferenceNumber)
	if target == models.StatusAcceptedByFacilitator && reference == "" {
		return nil, workflowErr(ErrValidationFailed, "reference number is required")
	}
	if target == models.StatusApproved {
		if err := validateReviewInput(input.Review); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	oldStatus := submission.Status

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, persistenceErr("failed to begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	updates := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}

	switch target {
	case models.StatusAcceptedByFacilitator:
		var taken int64
		if err := tx.Model(&models.Submission{}).
			Where("reference_number = ? AND submission_id <> ?", reference, submissionID).
			Count(&taken).Error; err != nil {
			tx.Rollback()
			return nil, persistenceErr("failed to check reference number", err)
		}
		if taken > 0 {
			tx.Rollback()
			return nil, workflowErr(ErrValidationFailed, "reference number '%s' is already in use", reference)
		}
		updates["reference_number"] = reference
		updates["reference_generated_by"] = actor.UserID
	case models.StatusRejected:
		updates["rejected_by"] = actor.UserID
	case models.StatusAcceptedByExternal, models.StatusApproved:
		updates["rejected_by"] = nil
	}

	// Optimistic concurrency: the update only lands if the status is still
	// what we loaded. Zero rows affected means a concurrent writer won.
	result := tx.Model(&models.Submission{}).
		Where("submission_id = ? AND status = ?", submissionID, oldStatus).
		Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, persistenceErr("failed to update submission", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, workflowErr(ErrConflictOrNotFound, "submission %d was modified concurrently", submissionID)
	}

	logEntry := models.SubmissionStatusLog{
		SubmissionID: submissionID,
		OldStatus:    oldStatus,
		NewStatus:    target,
		ChangedBy:    actor.UserID,
		ChangedAt:    now,
	}
	if err := tx.Create(&logEntry).Error; err != nil {
		tx.Rollback()
		return nil, persistenceErr("failed to append status log", err)
	}

	if target == models.StatusApproved {
		review := models.SubmissionReview{
			SubmissionID:     submissionID,
			ReviewerID:       actor.UserID,
			Remarks:          input.Review.Remarks,
			EvidenceLink:     input.Review.EvidenceLink,
			IndexingBody:     input.Review.IndexingBody,
			IncentivesAmount: input.Review.IncentivesAmount,
			Publisher:        input.Review.Publisher,
			IsSpecialAward:   input.Review.IsSpecialAward,
			CreatedAt:        now,
		}
		if err := tx.Create(&review).Error; err != nil {
			tx.Rollback()
			return nil, persistenceErr("failed to save review record", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, persistenceErr("failed to commit transition", err)
	}

	applyToStruct(&submission, target, actor, reference, now)

	if s.notifier != nil {
		if err := s.notifier.NotifyStatusChange(&submission, target, actor.UserID); err != nil {
			log.Printf("Warning: notification for submission %d (%s) failed: %v", submissionID, target, err)
		}
	}

	return &submission, nil
}

// authorizeScope enforces the organizational boundary. Facilitators act
// within their own department, the publication/innovation office within its
// campus. The external review office acts on referred submissions regardless
// of origin, and admins are unrestricted.
func authorizeScope(actor ActorScope, submission *models.Submission) error {
	switch actor.RoleID {
	case models.RoleAdmin, models.RoleExternalOffice:
		return nil
	case models.RolePIOOffice:
		if actor.CampusID != submission.CampusID {
			return workflowErr(ErrAuthorizationDenied, "submission %d belongs to another campus", submission.SubmissionID)
		}
		return nil
	case models.RoleFacilitator:
		if actor.DepartmentID != submission.DepartmentID || actor.CampusID != submission.CampusID {
			return workflowErr(ErrAuthorizationDenied, "submission %d is outside your department", submission.SubmissionID)
		}
		return nil
	default:
		return workflowErr(ErrAuthorizationDenied, "role %d may not change submission statuses", actor.RoleID)
	}
}

func validateReviewInput(review *ReviewInput) error {
	if review == nil {
		return workflowErr(ErrValidationFailed, "review details are required for approval")
	}
	missing := make([]string, 0, 4)
	if strings.TrimSpace(review.Remarks) == "" {
		missing = append(missing, "remarks")
	}
	if strings.TrimSpace(review.EvidenceLink) == "" {
		missing = append(missing, "evidence_link")
	}
	if strings.TrimSpace(review.IndexingBody) == "" {
		missing = append(missing, "indexing_body")
	}
	if strings.TrimSpace(review.Publisher) == "" {
		missing = append(missing, "publisher")
	}
	if len(missing) > 0 {
		return workflowErr(ErrValidationFailed, "missing review fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// applyToStruct mirrors the committed column changes onto the in-memory row
// so callers see the post-transition state without a reload.
func applyToStruct(submission *models.Submission, target models.Status, actor ActorScope, reference string, now time.Time) {
	submission.Status = target
	submission.UpdatedAt = &now
	switch target {
	case models.StatusAcceptedByFacilitator:
		submission.ReferenceNumber = &reference
		generatedBy := actor.UserID
		submission.ReferenceGeneratedBy = &generatedBy
	case models.StatusRejected:
		rejectedBy := actor.UserID
		submission.RejectedBy = &rejectedBy
	case models.StatusAcceptedByExternal, models.StatusApproved:
		submission.RejectedBy = nil
	}
}
