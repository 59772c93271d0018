package handlers

import (
	"net/http"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/logger"
	"lmsplatform/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progress *usecase.ProgressUseCase
	log      *logger.Logger
}

func NewProgressHandler(progress *usecase.ProgressUseCase, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, log: log}
}

func (h *ProgressHandler) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("progress request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

type progressReq struct {
	CompletedSteps []string `json:"completedSteps"`
}

// POST /api/course/:id/lesson/:lessonId/progress
func (h *ProgressHandler) Record(c *gin.Context) {
	s, _ := middleware.Session(c)
	courseID, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.CompletedSteps == nil {
		req.CompletedSteps = []string{}
	}

	rec, err := h.progress.RecordProgress(c.Request.Context(), courseID, lessonID, s.UserID, req.CompletedSteps)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Progress saved", "completedSteps": rec.CompletedSteps})
}

// POST /api/course/:id/lesson/:lessonId/complete
func (h *ProgressHandler) Complete(c *gin.Context) {
	s, _ := middleware.Session(c)
	courseID, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.progress.MarkComplete(c.Request.Context(), courseID, lessonID, s.UserID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lesson marked as completed"})
}

// GET /api/course/:id/lesson/:lessonId/progress
func (h *ProgressHandler) Get(c *gin.Context) {
	s, _ := middleware.Session(c)
	courseID, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		h.fail(c, err)
		return
	}
	view, err := h.progress.Get(c.Request.Context(), courseID, lessonID, s.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
