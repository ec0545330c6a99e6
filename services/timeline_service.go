package services

import (
	"errors"
	"time"

	"research-portal-api/models"
	"research-portal-api/utils"

	"gorm.io/gorm"
)

// Step display states on the tracking page.
const (
	StepCompleted = "completed"
	StepActive    = "active"
	StepPending   = "pending"
	StepRejected  = "rejected"
)

// actorUnknown is rendered when a log entry's changed_by user no longer
// resolves.
const actorUnknown = "N/A"

// TimelineStep is one row of the tracking timeline handed to the
// presentation layer.
type TimelineStep struct {
	Step                 models.Status `json:"step"`
	Label                string        `json:"label"`
	State                string        `json:"state"`
	Reached              bool          `json:"reached"`
	Timestamp            *time.Time    `json:"timestamp,omitempty"`
	ActorName            string        `json:"actor_name,omitempty"`
	ElapsedSincePrevious string        `json:"elapsed_since_previous,omitempty"`
}

// TimelineService replays a submission's status log into the fixed canonical
// step sequence. It is read-only; the same log always yields the same
// timeline.
type TimelineService struct {
	db *gorm.DB
}

func NewTimelineService(db *gorm.DB) *TimelineService {
	return &TimelineService{db: db}
}

// BuildTimeline loads the submission, its full status log and the display
// names of everyone involved, then reconstructs the ordered step sequence.
func (s *TimelineService) BuildTimeline(submissionID int) ([]TimelineStep, error) {
	var submission models.Submission
	if err := s.db.Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflowErr(ErrNotFound, "submission %d not found", submissionID)
		}
		return nil, persistenceErr("failed to load submission", err)
	}

	var logs []models.SubmissionStatusLog
	if err := s.db.Where("submission_id = ?", submissionID).
		Order("changed_at ASC, log_id ASC").
		Find(&logs).Error; err != nil {
		return nil, persistenceErr("failed to load status log", err)
	}

	names, err := s.loadActorNames(&submission, logs)
	if err != nil {
		return nil, err
	}

	return ReconstructTimeline(&submission, logs, names), nil
}

func (s *TimelineService) loadActorNames(submission *models.Submission, logs []models.SubmissionStatusLog) (map[int]string, error) {
	ids := map[int]struct{}{submission.ResearcherID: {}}
	for _, entry := range logs {
		ids[entry.ChangedBy] = struct{}{}
	}

	userIDs := make([]int, 0, len(ids))
	for id := range ids {
		userIDs = append(userIDs, id)
	}

	var users []models.User
	if err := s.db.Select("user_id, user_fname, user_lname").
		Where("user_id IN ?", userIDs).
		Find(&users).Error; err != nil {
		return nil, persistenceErr("failed to load actor names", err)
	}

	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.UserID] = u.FullName()
	}
	return names, nil
}

type recordedStep struct {
	timestamp time.Time
	actor     string
	elapsed   string
}

// ReconstructTimeline walks the status log in order, collapsing database
// aliases onto canonical step names and recording each step the first time
// it appears. A rejected entry halts further recording and becomes a
// terminal marker of its own. The function is pure so the replay can be
// tested without a database.
func ReconstructTimeline(submission *models.Submission, logs []models.SubmissionStatusLog, actorNames map[int]string) []TimelineStep {
	recorded := map[models.Status]recordedStep{
		models.StatusSubmitted: {
			timestamp: submission.SubmissionDate,
			actor:     actorName(actorNames, submission.ResearcherID),
		},
	}

	stepSet := make(map[models.Status]struct{}, len(models.TimelineSteps))
	for _, step := range models.TimelineSteps {
		stepSet[step] = struct{}{}
	}

	lastTime := submission.SubmissionDate
	var rejection *recordedStep

	for i := range logs {
		entry := &logs[i]
		if entry.NewStatus == models.StatusRejected {
			rejection = &recordedStep{
				timestamp: entry.ChangedAt,
				actor:     actorName(actorNames, entry.ChangedBy),
				elapsed:   utils.FormatElapsed(lastTime, entry.ChangedAt),
			}
			break
		}

		step := entry.NewStatus.Canonical()
		if _, known := stepSet[step]; !known {
			continue
		}
		if _, seen := recorded[step]; seen {
			continue
		}
		recorded[step] = recordedStep{
			timestamp: entry.ChangedAt,
			actor:     actorName(actorNames, entry.ChangedBy),
			elapsed:   utils.FormatElapsed(lastTime, entry.ChangedAt),
		}
		lastTime = entry.ChangedAt
	}

	current := submission.Status.Canonical()
	rejected := submission.Status == models.StatusRejected || rejection != nil

	steps := make([]TimelineStep, 0, len(models.TimelineSteps)+1)
	for _, step := range models.TimelineSteps {
		out := TimelineStep{
			Step:  step,
			Label: step.Label(),
			State: StepPending,
		}
		if rec, ok := recorded[step]; ok {
			ts := rec.timestamp
			out.Reached = true
			out.Timestamp = &ts
			out.ActorName = rec.actor
			out.ElapsedSincePrevious = rec.elapsed
			out.State = StepCompleted
			if !rejected && step == current {
				out.State = StepActive
			}
		}
		steps = append(steps, out)
	}

	if rejected {
		out := TimelineStep{
			Step:    models.StatusRejected,
			Label:   models.StatusRejected.Label(),
			State:   StepRejected,
			Reached: true,
		}
		if rejection != nil {
			ts := rejection.timestamp
			out.Timestamp = &ts
			out.ActorName = rejection.actor
			out.ElapsedSincePrevious = rejection.elapsed
		} else if submission.RejectedBy != nil {
			// Rejected status without a matching log row (legacy data).
			out.ActorName = actorName(actorNames, *submission.RejectedBy)
		}
		steps = append(steps, out)
	}

	return steps
}

func actorName(names map[int]string, userID int) string {
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return actorUnknown
}
