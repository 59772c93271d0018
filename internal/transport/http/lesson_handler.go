package handlers

import (
	"net/http"
	"time"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/domain"
	"lmsplatform/internal/logger"
	"lmsplatform/internal/middleware"

	"github.com/gin-gonic/gin"
)

type LessonHandler struct {
	lessons *usecase.LessonUseCase
	log     *logger.Logger
}

func NewLessonHandler(lessons *usecase.LessonUseCase, log *logger.Logger) *LessonHandler {
	return &LessonHandler{lessons: lessons, log: log}
}

// actionStepReq accepts loosely typed link and file lists; anything that is not a string is dropped.
type actionStepReq struct {
	StepID       string        `json:"stepId"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	ResourceURL  string        `json:"resourceUrl"`
	YoutubeLinks []interface{} `json:"youtubeLinks"`
	Files        []interface{} `json:"files"`
}

type lessonReq struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Open        *bool           `json:"open"`
	ActionSteps []actionStepReq `json:"actionSteps"`
}

func (r lessonReq) input() usecase.LessonInput {
	in := usecase.LessonInput{Title: r.Title, Description: r.Description, Open: r.Open}
	if r.ActionSteps == nil {
		return in
	}
	in.ActionSteps = make([]domain.ActionStep, 0, len(r.ActionSteps))
	for _, s := range r.ActionSteps {
		in.ActionSteps = append(in.ActionSteps, domain.ActionStep{
			StepID:       s.StepID,
			Title:        s.Title,
			Description:  s.Description,
			ResourceURL:  s.ResourceURL,
			YoutubeLinks: onlyStrings(s.YoutubeLinks),
			Files:        onlyStrings(s.Files),
		})
	}
	return in
}

func onlyStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (h *LessonHandler) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("lesson request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// POST /api/course/:id/lesson
func (h *LessonHandler) Create(c *gin.Context) {
	s, _ := middleware.Session(c)
	courseID, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req lessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("", err.Error()))
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), s, courseID, req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": lesson})
}

// PATCH /api/course/:id/lesson/:lessonId
func (h *LessonHandler) Update(c *gin.Context) {
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
	var req lessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("", err.Error()))
		return
	}
	lesson, err := h.lessons.Update(c.Request.Context(), s, courseID, lessonID, req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": lesson})
}

// DELETE /api/course/:id/lesson/:lessonId
func (h *LessonHandler) Delete(c *gin.Context) {
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
	lesson, err := h.lessons.Delete(c.Request.Context(), s, courseID, lessonID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": lesson})
}

// GET /api/course/:id/lesson/:lessonId
func (h *LessonHandler) Get(c *gin.Context) {
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
	lesson, err := h.lessons.Get(c.Request.Context(), courseID, lessonID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": lesson})
}

// POST /api/course/:id/lesson/:lessonId/step/:stepId/upload
func (h *LessonHandler) UploadStepFiles(c *gin.Context) {
	s, _ := middleware.Session(c)
	courseID, err := paramID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Expected multipart form with files"})
		return
	}

	files, err := h.lessons.UploadStepFiles(c.Request.Context(), s, courseID, lessonID, c.Param("stepId"), form.File["files"])
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.log.Error("step upload failed", "lesson_id", lessonID, "error", err)
			c.JSON(status, gin.H{"msg": "Server error", "error": err.Error()})
			return
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Files uploaded", "files": files})
}

type assignmentReq struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// POST /api/course/:id/lesson/:lessonId/assignment
func (h *LessonHandler) SetAssignment(c *gin.Context) {
	h.assignment(c, true)
}

// DELETE /api/course/:id/lesson/:lessonId/assignment
func (h *LessonHandler) DeleteAssignment(c *gin.Context) {
	h.assignment(c, false)
}

func (h *LessonHandler) assignment(c *gin.Context, set bool) {
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

	var a *domain.LessonAssignment
	if set {
		var req assignmentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, domain.Invalid("", err.Error()))
			return
		}
		a = &domain.LessonAssignment{Title: req.Title, Description: req.Description, Deadline: req.Deadline}
	}

	lesson, err := h.lessons.SetAssignment(c.Request.Context(), s, courseID, lessonID, a)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": lesson})
}
