package handlers

import (
	"errors"
	"net/http"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrLessonNotFound),
		errors.Is(err, domain.ErrStepNotFound),
		errors.Is(err, domain.ErrDiscussionNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrWorkNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrAssignmentClosed),
		errors.Is(err, domain.ErrAssignmentLate):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAlreadyEnrolled),
		errors.Is(err, domain.ErrNotEnrolled):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {key: message}. Unmapped errors are logged and answered with 500.
func respondError(c *gin.Context, log *logger.Logger, key string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{key: err.Error()})
}

func paramID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.Invalid(name, "invalid identifier")
	}
	return id, nil
}
