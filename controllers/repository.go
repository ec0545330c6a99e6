package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"research-portal-api/config"
	"research-portal-api/models"

	"github.com/gin-gonic/gin"
)

// SearchRepository serves the searchable archive of approved submissions.
// GET /api/v1/repository?q=&category=&department_id=&campus_id=&year=&page=&page_size=
func SearchRepository(c *gin.Context) {
	query := config.DB.Model(&models.Submission{}).
		Preload("Researcher").Preload("Department").Preload("Campus").
		Where("status = ?", models.StatusApproved)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR abstract LIKE ?", like, like)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if deptStr := strings.TrimSpace(c.Query("department_id")); deptStr != "" {
		if deptID, err := strconv.Atoi(deptStr); err == nil && deptID > 0 {
			query = query.Where("department_id = ?", deptID)
		}
	}
	if campusStr := strings.TrimSpace(c.Query("campus_id")); campusStr != "" {
		if campusID, err := strconv.Atoi(campusStr); err == nil && campusID > 0 {
			query = query.Where("campus_id = ?", campusID)
		}
	}
	if yearStr := strings.TrimSpace(c.Query("year")); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil && year > 0 {
			query = query.Where("YEAR(submission_date) = ?", year)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count repository items"})
		return
	}

	page := parsePositive(c.Query("page"), 1)
	size := parsePositive(c.Query("page_size"), 20)

	var submissions []models.Submission
	if err := query.Order("submission_date DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search repository"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   submissions,
		"meta": gin.H{
			"page":      page,
			"page_size": size,
			"total":     total,
		},
	})
}
