package controllers

import (
	"net/http"
	"strconv"

	"research-portal-api/config"
	"research-portal-api/services"

	"github.com/gin-gonic/gin"
)

// GetSubmissionTimeline returns the reconstructed tracking timeline for one
// submission.
func GetSubmissionTimeline(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	steps, err := services.NewTimelineService(config.DB).BuildTimeline(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"timeline": steps,
	})
}
