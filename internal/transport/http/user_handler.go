package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/storage"
	"lmsplatform/internal/logger"
	"lmsplatform/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Uploader stores a single multipart file under an explicit destination.
type Uploader interface {
	Save(dest storage.Destination, fh *multipart.FileHeader) (storage.StoredFile, error)
}

type UserHandler struct {
	users *usecase.UserUseCase
	files Uploader
	log   *logger.Logger
}

func NewUserHandler(users *usecase.UserUseCase, files Uploader, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, files: files, log: log}
}

// optionalFile returns the named upload, or nil when the form has none.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}

// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	s, _ := middleware.Session(c)
	user, err := h.users.Profile(c.Request.Context(), s.UserID)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	s, _ := middleware.Session(c)

	upd := usecase.ProfileUpdate{
		Name:         c.PostForm("name"),
		RemoveAvatar: c.PostForm("removeAvatar") == "1",
	}
	fh, err := optionalFile(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fh != nil && !upd.RemoveAvatar {
		stored, err := h.files.Save(storage.Avatars, fh)
		if err != nil {
			respondError(c, h.log, "error", err)
			return
		}
		upd.Avatar = stored.URL
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), s.UserID, upd)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/user/by-email
func (h *UserHandler) ByEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.users.ByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/user
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserReq struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     domain.Role `json:"role"`
}

// POST /api/user
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.Create(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type updateUserReq struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email"`
	Password *string      `json:"password"`
	Role     *domain.Role `json:"role"`
}

// PUT /api/user/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.Update(c.Request.Context(), id, usecase.UserPatch(req))
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/user/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
