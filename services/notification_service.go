package services

import (
	"fmt"
	"html/template"
	"log"

	"research-portal-api/config"
	"research-portal-api/models"

	"gorm.io/gorm"
)

// NotificationService writes in-app notification rows and sends the matching
// email. Both are best effort: the workflow engine logs failures here and
// never rolls a committed transition back because of them.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyStatusChange addresses the submission's researcher with a
// human-readable description of the new status.
func (s *NotificationService) NotifyStatusChange(submission *models.Submission, newStatus models.Status, actorID int) error {
	title := fmt.Sprintf("Submission %s update", submissionDisplayNumber(submission))
	message := fmt.Sprintf("Your submission \"%s\" is now: %s.", submission.Title, newStatus.Label())

	notifType := "info"
	switch newStatus {
	case models.StatusApproved:
		notifType = "success"
	case models.StatusRejected:
		notifType = "error"
	}

	relatedID := uint(submission.SubmissionID)
	notification := models.Notification{
		UserID:              uint(submission.ResearcherID),
		Title:               title,
		Message:             message,
		Type:                notifType,
		Link:                fmt.Sprintf("/track/%d", submission.SubmissionID),
		RelatedSubmissionID: &relatedID,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	s.emailResearcher(submission, title, message)
	return nil
}

// emailResearcher fires the email in the background; SMTP problems only show
// up in the log.
func (s *NotificationService) emailResearcher(submission *models.Submission, subject, message string) {
	var researcher models.User
	if err := s.db.Select("user_id, user_fname, user_lname, email").
		Where("user_id = ? AND delete_at IS NULL", submission.ResearcherID).
		First(&researcher).Error; err != nil {
		log.Printf("Warning: cannot resolve researcher %d for email: %v", submission.ResearcherID, err)
		return
	}
	if researcher.Email == "" {
		return
	}

	html := buildStatusEmailHTML(subject, researcher.FullName(), message)
	go func(to, subject, html string) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("sendmail panic: %v", r)
			}
		}()
		if err := config.SendMail([]string{to}, subject, html); err != nil {
			log.Printf("sendmail error: %v", err)
		}
	}(researcher.Email, subject, html)
}

func buildStatusEmailHTML(subject, recipientName, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h3>%s</h3>
  <p>Dear %s,</p>
  <p>%s</p>
  <p>You can follow the progress of your submission in the research portal.</p>
  <p style="color:#888; font-size:12px;">This is an automated message. Please do not reply.</p>
</body>
</html>`,
		template.HTMLEscapeString(subject),
		template.HTMLEscapeString(recipientName),
		template.HTMLEscapeString(message),
	)
}

func submissionDisplayNumber(submission *models.Submission) string {
	if submission.ReferenceNumber != nil && *submission.ReferenceNumber != "" {
		return *submission.ReferenceNumber
	}
	return fmt.Sprintf("#%d", submission.SubmissionID)
}
