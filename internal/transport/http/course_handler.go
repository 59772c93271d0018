package handlers

import (
	"net/http"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/storage"
	"lmsplatform/internal/logger"
	"lmsplatform/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseHandler struct {
	courses *usecase.CourseUseCase
	files   Uploader
	log     *logger.Logger
}

func NewCourseHandler(courses *usecase.CourseUseCase, files Uploader, log *logger.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, files: files, log: log}
}

func (h *CourseHandler) ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func (h *CourseHandler) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("course request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// banner stores the optional "banner" upload and returns its URL.
func (h *CourseHandler) banner(c *gin.Context) (string, error) {
	fh, err := optionalFile(c, "banner")
	if err != nil || fh == nil {
		return "", err
	}
	stored, err := h.files.Save(storage.Banners, fh)
	if err != nil {
		return "", err
	}
	return stored.URL, nil
}

// POST /api/course/professor
func (h *CourseHandler) Create(c *gin.Context) {
	s, _ := middleware.Session(c)
	if !s.CanTeach() {
		h.fail(c, domain.ErrForbidden)
		return
	}
	banner, err := h.banner(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	course, err := h.courses.Create(c.Request.Context(), s, c.PostForm("name"), c.PostForm("details"), banner)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, course)
}

// GET /api/course/professor
func (h *CourseHandler) ListForProfessor(c *gin.Context) {
	s, _ := middleware.Session(c)
	courses, err := h.courses.ListForProfessor(c.Request.Context(), s)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, courses)
}

// GET /api/course/student
func (h *CourseHandler) ListForStudent(c *gin.Context) {
	s, _ := middleware.Session(c)
	courses, err := h.courses.ListForStudent(c.Request.Context(), s)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, courses)
}

// GET /api/course/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	detail, err := h.courses.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, detail)
}

// PATCH /api/course/:id
func (h *CourseHandler) Update(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	patch := usecase.CoursePatch{Name: c.PostForm("name")}
	if details, ok := c.GetPostForm("details"); ok {
		patch.Details = &details
	}
	if patch.Banner, err = h.banner(c); err != nil {
		h.fail(c, err)
		return
	}

	course, err := h.courses.Update(c.Request.Context(), s, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, course)
}

// DELETE /api/course/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), s, id); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"id": id})
}

type enrollReq struct {
	StudentID uuid.UUID `json:"studentId" binding:"required"`
}

// POST /api/course/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req enrollReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("studentId", "is required"))
		return
	}
	if err := h.courses.Enroll(c.Request.Context(), s, id, req.StudentID); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"courseId": id, "studentId": req.StudentID})
}

// DELETE /api/course/:id/enroll/:studentId
func (h *CourseHandler) Unenroll(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	studentID, err := paramID(c, "studentId")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.courses.Unenroll(c.Request.Context(), s, id, studentID); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"courseId": id, "studentId": studentID})
}

type gradeReq struct {
	StudentID uuid.UUID          `json:"studentId" binding:"required"`
	Grade     float64            `json:"grade"`
	Status    domain.GradeStatus `json:"status"`
}

// PATCH /api/course/:id/grade
func (h *CourseHandler) Grade(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req gradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, domain.Invalid("", err.Error()))
		return
	}
	grade, err := h.courses.UpdateGrade(c.Request.Context(), s, id, req.StudentID, req.Grade, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, grade)
}
