package handlers

import (
	"net/http"
	"time"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/storage"
	"lmsplatform/internal/logger"
	"lmsplatform/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubmissionHandler struct {
	submissions *usecase.SubmissionUseCase
	files       Uploader
	log         *logger.Logger
}

func NewSubmissionHandler(submissions *usecase.SubmissionUseCase, files Uploader, log *logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, files: files, log: log}
}

type createSubmissionReq struct {
	CourseID uuid.UUID             `json:"courseId" binding:"required"`
	Title    string                `json:"title" binding:"required"`
	Type     domain.SubmissionType `json:"type" binding:"required"`
	DueDate  time.Time             `json:"dueDate" binding:"required"`
}

type updateSubmissionReq struct {
	Title   *string                  `json:"title"`
	Type    *domain.SubmissionType   `json:"type"`
	DueDate *time.Time               `json:"dueDate"`
	Status  *domain.SubmissionStatus `json:"status"`
	Visible *bool                    `json:"visible"`
}

type gradeWorkReq struct {
	Grade    *float64 `json:"grade"`
	Feedback string   `json:"feedback"`
}

// POST /api/submission
func (h *SubmissionHandler) Create(c *gin.Context) {
	s, _ := middleware.Session(c)
	var req createSubmissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.submissions.Create(c.Request.Context(), s, usecase.SubmissionInput(req))
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GET /api/submission/course/:courseId
func (h *SubmissionHandler) ListByCourse(c *gin.Context) {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	items, err := h.submissions.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/submission/course/:courseId/student
func (h *SubmissionHandler) MyWorks(c *gin.Context) {
	s, _ := middleware.Session(c)
	courseID, err := paramID(c, "courseId")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	works, err := h.submissions.WorksOfStudent(c.Request.Context(), s, courseID)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, works)
}

// GET /api/submission/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	item, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// PUT /api/submission/:id
func (h *SubmissionHandler) Update(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	var req updateSubmissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.submissions.Update(c.Request.Context(), s, id, usecase.SubmissionPatch(req))
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/submission/:id
func (h *SubmissionHandler) Delete(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	if err := h.submissions.Delete(c.Request.Context(), s, id); err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted"})
}

// PUT /api/submission/:id/grade/:studentId
func (h *SubmissionHandler) Grade(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	studentID, err := paramID(c, "studentId")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	var req gradeWorkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	work, err := h.submissions.Grade(c.Request.Context(), s, id, studentID, req.Grade, req.Feedback)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, work)
}

// POST /api/submission/:id/submit takes either a multipart "file" or a "fileUrl" form value.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}

	fileURL := c.PostForm("fileUrl")
	if fileURL == "" && c.ContentType() == gin.MIMEJSON {
		var body struct {
			FileURL string `json:"fileUrl"`
		}
		_ = c.ShouldBindJSON(&body)
		fileURL = body.FileURL
	}
	fh, err := optionalFile(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fh != nil {
		stored, err := h.files.Save(storage.Submissions, fh)
		if err != nil {
			respondError(c, h.log, "error", err)
			return
		}
		fileURL = stored.URL
	}

	if err := h.submissions.Submit(c.Request.Context(), s, id, fileURL); err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fileUrl": fileURL})
}

// POST /api/submission/:id/unsubmit
func (h *SubmissionHandler) Unsubmit(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	if err := h.submissions.Unsubmit(c.Request.Context(), s, id); err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
