package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"research-portal-api/models"
)

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

var submissionColumns = []string{
	"submission_id", "reference_number", "status", "researcher_id",
	"department_id", "campus_id", "rejected_by", "title", "abstract",
	"category", "submission_date",
}

func expectLoadSubmission(mock sqlmock.Sqlmock, status models.Status, reference interface{}, rejectedBy interface{}) {
	submittedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `submissions` WHERE submission_id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(submissionColumns).
			AddRow(1, reference, string(status), 10, 5, 2, rejectedBy,
				"Irrigation network study", "abstract", "publication", submittedAt))
}

type recordingNotifier struct {
	statuses []models.Status
	err      error
}

func (n *recordingNotifier) NotifyStatusChange(submission *models.Submission, newStatus models.Status, actorID int) error {
	n.statuses = append(n.statuses, newStatus)
	return n.err
}

var (
	facilitatorScope = ActorScope{UserID: 2, RoleID: models.RoleFacilitator, DepartmentID: 5, CampusID: 2}
	pioScope         = ActorScope{UserID: 3, RoleID: models.RolePIOOffice, CampusID: 2}
	externalScope    = ActorScope{UserID: 4, RoleID: models.RoleExternalOffice, DepartmentID: 99, CampusID: 99}
)

func TestApplyTransitionFacilitatorAccept(t *testing.T) {
	db, mock := newMockGormDB(t)
	notifier := &recordingNotifier{}
	svc := NewWorkflowService(db, notifier)

	expectLoadSubmission(mock, models.StatusSubmitted, nil, nil)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `submissions` WHERE reference_number = ? AND submission_id <> ?")).
		WithArgs("REF-001", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	// GORM orders map-based assignments alphabetically by column name.
	mock.ExpectExec("UPDATE `submissions` SET").
		WithArgs(2, "REF-001", "accepted_by_facilitator", sqlmock.AnyArg(), 1, "submitted").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `submission_status_logs`")).
		WithArgs(1, "submitted", "accepted_by_facilitator", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	submission, err := svc.ApplyTransition(1, facilitatorScope, models.StatusAcceptedByFacilitator,
		TransitionInput{ReferenceNumber: "REF-001"})

	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedByFacilitator, submission.Status)
	require.NotNil(t, submission.ReferenceNumber)
	assert.Equal(t, "REF-001", *submission.ReferenceNumber)
	require.NotNil(t, submission.ReferenceGeneratedBy)
	assert.Equal(t, 2, *submission.ReferenceGeneratedBy)

	require.Len(t, notifier.statuses, 1)
	assert.Equal(t, models.StatusAcceptedByFacilitator, notifier.statuses[0])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionApprovalInsertsReview(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusAcceptedByExternal, "REF-001", 7)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `submissions` SET").
		WithArgs(nil, "approved", sqlmock.AnyArg(), 1, "accepted_by_external").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `submission_status_logs`")).
		WithArgs(1, "accepted_by_external", "approved", 4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `submission_reviews`")).
		WithArgs(1, 4, "ok", "https://x", "Scopus", 100.0, "Acme", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	submission, err := svc.ApplyTransition(1, externalScope, models.StatusApproved, TransitionInput{
		Review: &ReviewInput{
			Remarks:          "ok",
			EvidenceLink:     "https://x",
			IndexingBody:     "Scopus",
			IncentivesAmount: 100.0,
			Publisher:        "Acme",
			IsSpecialAward:   false,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, submission.Status)
	assert.Nil(t, submission.RejectedBy)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionTerminalStateRejected(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusRejected, nil, 7)

	_, err := svc.ApplyTransition(1, externalScope, models.StatusRejected, TransitionInput{})

	require.Error(t, err)
	assert.Equal(t, ErrInvalidTransition, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionSkippingStates(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusSubmitted, nil, nil)

	_, err := svc.ApplyTransition(1, externalScope, models.StatusApproved, TransitionInput{
		Review: &ReviewInput{Remarks: "ok", EvidenceLink: "x", IndexingBody: "y", Publisher: "z"},
	})

	require.Error(t, err)
	assert.Equal(t, ErrInvalidTransition, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionNoOpWritesNothing(t *testing.T) {
	db, mock := newMockGormDB(t)
	notifier := &recordingNotifier{}
	svc := NewWorkflowService(db, notifier)

	expectLoadSubmission(mock, models.StatusForwardedToPIO, "REF-001", nil)

	submission, err := svc.ApplyTransition(1, pioScope, models.StatusForwardedToPIO, TransitionInput{})

	require.NoError(t, err)
	assert.Equal(t, models.StatusForwardedToPIO, submission.Status)
	assert.Empty(t, notifier.statuses)
	// Nothing beyond the initial load may have hit the database.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionReacceptWithNewReference(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusAcceptedByFacilitator, "REF-001", nil)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `submissions` WHERE reference_number = ? AND submission_id <> ?")).
		WithArgs("REF-002", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("UPDATE `submissions` SET").
		WithArgs(2, "REF-002", "accepted_by_facilitator", sqlmock.AnyArg(), 1, "accepted_by_facilitator").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `submission_status_logs`")).
		WithArgs(1, "accepted_by_facilitator", "accepted_by_facilitator", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	submission, err := svc.ApplyTransition(1, facilitatorScope, models.StatusAcceptedByFacilitator,
		TransitionInput{ReferenceNumber: "REF-002"})

	require.NoError(t, err)
	require.NotNil(t, submission.ReferenceNumber)
	assert.Equal(t, "REF-002", *submission.ReferenceNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionConcurrentWriterLoses(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusAcceptedByFacilitator, "REF-001", nil)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `submissions` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.ApplyTransition(1, facilitatorScope, models.StatusForwardedToPIO, TransitionInput{})

	require.Error(t, err)
	assert.Equal(t, ErrConflictOrNotFound, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionReviewInsertFailureRollsBack(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusAcceptedByExternal, "REF-001", nil)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `submissions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `submission_status_logs`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `submission_reviews`")).
		WillReturnError(errors.New("submission_reviews is read only"))
	mock.ExpectRollback()

	_, err := svc.ApplyTransition(1, externalScope, models.StatusApproved, TransitionInput{
		Review: &ReviewInput{Remarks: "ok", EvidenceLink: "https://x", IndexingBody: "Scopus", Publisher: "Acme"},
	})

	require.Error(t, err)
	assert.Equal(t, ErrPersistenceFailure, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionScopeMismatch(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusSubmitted, nil, nil)

	otherDept := ActorScope{UserID: 2, RoleID: models.RoleFacilitator, DepartmentID: 6, CampusID: 2}
	_, err := svc.ApplyTransition(1, otherDept, models.StatusAcceptedByFacilitator,
		TransitionInput{ReferenceNumber: "REF-001"})

	require.Error(t, err)
	assert.Equal(t, ErrAuthorizationDenied, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionResearcherMayNotTransition(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusSubmitted, nil, nil)

	researcher := ActorScope{UserID: 10, RoleID: models.RoleResearcher, DepartmentID: 5, CampusID: 2}
	_, err := svc.ApplyTransition(1, researcher, models.StatusAcceptedByFacilitator,
		TransitionInput{ReferenceNumber: "REF-001"})

	require.Error(t, err)
	assert.Equal(t, ErrAuthorizationDenied, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionMissingReference(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusSubmitted, nil, nil)

	_, err := svc.ApplyTransition(1, facilitatorScope, models.StatusAcceptedByFacilitator, TransitionInput{})

	require.Error(t, err)
	assert.Equal(t, ErrValidationFailed, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionDuplicateReference(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusSubmitted, nil, nil)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `submissions` WHERE reference_number = ? AND submission_id <> ?")).
		WithArgs("REF-001", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.ApplyTransition(1, facilitatorScope, models.StatusAcceptedByFacilitator,
		TransitionInput{ReferenceNumber: "REF-001"})

	require.Error(t, err)
	assert.Equal(t, ErrValidationFailed, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionMissingReviewFields(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	expectLoadSubmission(mock, models.StatusAcceptedByExternal, "REF-001", nil)

	_, err := svc.ApplyTransition(1, externalScope, models.StatusApproved, TransitionInput{
		Review: &ReviewInput{Remarks: "ok"},
	})

	require.Error(t, err)
	assert.Equal(t, ErrValidationFailed, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionNotFound(t *testing.T) {
	db, mock := newMockGormDB(t)
	svc := NewWorkflowService(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `submissions` WHERE submission_id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(submissionColumns))

	_, err := svc.ApplyTransition(1, facilitatorScope, models.StatusAcceptedByFacilitator,
		TransitionInput{ReferenceNumber: "REF-001"})

	require.Error(t, err)
	assert.Equal(t, ErrNotFound, KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyTransitionNotificationFailureDoesNotFail(t *testing.T) {
	db, mock := newMockGormDB(t)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewWorkflowService(db, notifier)

	expectLoadSubmission(mock, models.StatusForwardedToPIO, "REF-001", nil)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `submissions` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `submission_status_logs`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	submission, err := svc.ApplyTransition(1, pioScope, models.StatusAcceptedByPIO, TransitionInput{})

	require.NoError(t, err)
	assert.Equal(t, models.StatusAcceptedByPIO, submission.Status)
	require.Len(t, notifier.statuses, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
