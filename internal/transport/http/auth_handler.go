package handlers

import (
	"net/http"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/domain"
	"lmsplatform/internal/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *usecase.AuthUseCase
	log  *logger.Logger
}

func NewAuthHandler(auth *usecase.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type registerReq struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     domain.Role `json:"role"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userId": id})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"user":         res.User,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not found"})
		return
	}

	access, refresh, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "refreshToken": refresh})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshReq
	_ = c.ShouldBindJSON(&req)

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.log.Warn("logout failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
