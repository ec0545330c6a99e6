package controllers

import (
	"errors"
	"net/http"

	"research-portal-api/services"

	"github.com/gin-gonic/gin"
)

func contextInt(c *gin.Context, key string) (int, bool) {
	if v, ok := c.Get(key); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

// currentActorScope rebuilds the acting user's scope from the values the
// auth middleware stored on the context.
func currentActorScope(c *gin.Context) (services.ActorScope, bool) {
	userID, ok := contextInt(c, "userID")
	if !ok {
		return services.ActorScope{}, false
	}
	roleID, _ := contextInt(c, "roleID")
	departmentID, _ := contextInt(c, "departmentID")
	campusID, _ := contextInt(c, "campusID")

	return services.ActorScope{
		UserID:       userID,
		RoleID:       roleID,
		DepartmentID: departmentID,
		CampusID:     campusID,
	}, true
}

// respondWorkflowError maps the service error taxonomy onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	var wfErr *services.WorkflowError
	if !errors.As(err, &wfErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch wfErr.Kind {
	case services.ErrNotFound:
		status = http.StatusNotFound
	case services.ErrAuthorizationDenied:
		status = http.StatusForbidden
	case services.ErrInvalidTransition, services.ErrConflictOrNotFound:
		status = http.StatusConflict
	case services.ErrValidationFailed:
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{
		"error": wfErr.Message,
		"kind":  string(wfErr.Kind),
	})
}
