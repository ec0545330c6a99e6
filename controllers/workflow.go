package controllers

import (
	"net/http"
	"strconv"

	"research-portal-api/config"
	"research-portal-api/models"
	"research-portal-api/services"

	"github.com/gin-gonic/gin"
)

type TransitionRequest struct {
	TargetStatus    string                `json:"target_status" binding:"required"`
	ReferenceNumber string                `json:"reference_number"`
	Review          *services.ReviewInput `json:"review"`
}

func workflowService() *services.WorkflowService {
	return services.NewWorkflowService(config.DB, services.NewNotificationService(config.DB))
}

// TransitionSubmission applies a workflow transition on behalf of the
// authenticated actor.
func TransitionSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor, ok := currentActorScope(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	submission, err := workflowService().ApplyTransition(
		submissionID,
		actor,
		models.Status(req.TargetStatus),
		services.TransitionInput{
			ReferenceNumber: req.ReferenceNumber,
			Review:          req.Review,
		},
	)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Submission is now: " + submission.Status.Label(),
		"submission": submission,
	})
}
