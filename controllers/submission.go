package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"research-portal-api/config"
	"research-portal-api/models"
	"research-portal-api/services"
	"research-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateSubmissionRequest struct {
	Title        string `json:"title" binding:"required"`
	Abstract     string `json:"abstract" binding:"required"`
	Category     string `json:"category" binding:"required,oneof=publication innovation"`
	FilePath     string `json:"file_path"`
	ResearcherID int    `json:"researcher_id"` // facilitators may submit on behalf of a researcher
}

// CreateSubmission registers a new piece of work at the submitted status.
func CreateSubmission(c *gin.Context) {
	actor, ok := currentActorScope(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	researcherID := actor.UserID
	if req.ResearcherID != 0 && req.ResearcherID != actor.UserID {
		if actor.RoleID != models.RoleFacilitator && actor.RoleID != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only facilitators may submit on behalf of a researcher"})
			return
		}
		var researcher models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.ResearcherID).
			First(&researcher).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Researcher not found"})
			return
		}
		if actor.RoleID == models.RoleFacilitator && researcher.DepartmentID != actor.DepartmentID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Researcher is outside your department"})
			return
		}
		researcherID = req.ResearcherID
	}

	now := time.Now()
	submission := models.Submission{
		Status:         models.StatusSubmitted,
		ResearcherID:   researcherID,
		DepartmentID:   actor.DepartmentID,
		CampusID:       actor.CampusID,
		Title:          utils.SanitizeInput(req.Title),
		Abstract:       utils.SanitizeInput(req.Abstract),
		Category:       req.Category,
		SubmissionDate: now,
	}
	if path := strings.TrimSpace(req.FilePath); path != "" {
		stored := storedFilePath(path)
		submission.FilePath = &stored
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// GetSubmissions lists submissions visible to the caller's role and scope.
func GetSubmissions(c *gin.Context) {
	actor, ok := currentActorScope(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	query := config.DB.Model(&models.Submission{}).
		Preload("Researcher").Preload("Department").Preload("Campus")
	query = scopeSubmissionQuery(query, actor)

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if !models.Status(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count submissions"})
		return
	}

	page := parsePositive(c.Query("page"), 1)
	size := parsePositive(c.Query("page_size"), 20)

	var submissions []models.Submission
	if err := query.Order("submission_date DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"meta": gin.H{
			"page":      page,
			"page_size": size,
			"total":     total,
		},
	})
}

// GetSubmission returns one submission with its review when approved.
func GetSubmission(c *gin.Context) {
	actor, ok := currentActorScope(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	query := scopeSubmissionQuery(config.DB.Model(&models.Submission{}), actor).
		Preload("Researcher").Preload("Department").Preload("Campus")
	if err := query.Where("submissions.submission_id = ?", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	response := gin.H{
		"success":    true,
		"submission": submission,
	}

	if submission.Status == models.StatusApproved {
		var review models.SubmissionReview
		if err := config.DB.Preload("Reviewer").
			Where("submission_id = ?", submissionID).
			Order("created_at DESC").
			First(&review).Error; err == nil {
			response["review"] = review
		}
	}

	c.JSON(http.StatusOK, response)
}

// scopeSubmissionQuery narrows a submissions query to what the actor's role
// may see: researchers their own work, facilitators their department, the
// PIO its campus, the external office anything referred to it.
func scopeSubmissionQuery(query *gorm.DB, actor services.ActorScope) *gorm.DB {
	switch actor.RoleID {
	case models.RoleAdmin:
		return query
	case models.RoleExternalOffice:
		return query.Where("status IN ?", []models.Status{
			models.StatusUnderExternalReview,
			models.StatusForwardedToExternal,
			models.StatusAcceptedByExternal,
			models.StatusApproved,
		})
	case models.RolePIOOffice:
		return query.Where("campus_id = ?", actor.CampusID)
	case models.RoleFacilitator:
		return query.Where("department_id = ? AND campus_id = ?", actor.DepartmentID, actor.CampusID)
	default:
		return query.Where("researcher_id = ?", actor.UserID)
	}
}

func parsePositive(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// storedFilePath prefixes the client-supplied name with a UUID so stored
// references stay collision free when researchers upload same-named files.
func storedFilePath(original string) string {
	base := filepath.Base(original)
	return uuid.NewString() + "_" + base
}
