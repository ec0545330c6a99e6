package controllers

import (
	"net/http"

	"research-portal-api/config"
	"research-portal-api/models"

	"github.com/gin-gonic/gin"
)

// GetDepartments lists departments for form rendering.
func GetDepartments(c *gin.Context) {
	var departments []models.Department
	query := config.DB.Preload("Campus").Order("department_name ASC")
	if campusID := c.Query("campus_id"); campusID != "" {
		query = query.Where("campus_id = ?", campusID)
	}
	if err := query.Find(&departments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch departments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

// GetCampuses lists campuses for form rendering.
func GetCampuses(c *gin.Context) {
	var campuses []models.Campus
	if err := config.DB.Order("campus_name ASC").Find(&campuses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campuses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campuses": campuses})
}
