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

// ForumHandler serves /api/discussion-forum: discussions, their comment threads and uploads.
type ForumHandler struct {
	discussions *usecase.DiscussionUseCase
	comments    *usecase.CommentUseCase
	files       Uploader
	log         *logger.Logger
}

func NewForumHandler(d *usecase.DiscussionUseCase, cm *usecase.CommentUseCase, files Uploader, log *logger.Logger) *ForumHandler {
	return &ForumHandler{discussions: d, comments: cm, files: files, log: log}
}

type discussionReq struct {
	Title    string           `json:"title"`
	Sections []domain.Section `json:"sections"`
}

type commentReq struct {
	DiscussionID uuid.UUID        `json:"discussionId"`
	ParentID     *uuid.UUID       `json:"parentId"`
	Sections     []domain.Section `json:"sections"`
}

// POST /discussions
func (h *ForumHandler) CreateDiscussion(c *gin.Context) {
	s, _ := middleware.Session(c)
	var req discussionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.discussions.Create(c.Request.Context(), s, req.Title, req.Sections)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// GET /discussions
func (h *ForumHandler) ListDiscussions(c *gin.Context) {
	list, err := h.discussions.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /discussions/:id
func (h *ForumHandler) GetDiscussion(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	d, err := h.discussions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// PUT /discussions/:id
func (h *ForumHandler) UpdateDiscussion(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	var req discussionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.discussions.Update(c.Request.Context(), s, id, req.Title, req.Sections)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DELETE /discussions/:id
func (h *ForumHandler) DeleteDiscussion(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	if err := h.discussions.Delete(c.Request.Context(), s, id); err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discussion deleted"})
}

// ReactDiscussion returns the handler for POST /discussions/:id/like and /dislike.
func (h *ForumHandler) ReactDiscussion(kind domain.ReactionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, _ := middleware.Session(c)
		id, err := paramID(c, "id")
		if err != nil {
			respondError(c, h.log, "error", err)
			return
		}
		d, err := h.discussions.React(c.Request.Context(), s, id, kind)
		if err != nil {
			respondError(c, h.log, "error", err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// POST /comments
func (h *ForumHandler) CreateComment(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DiscussionID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discussionId is required"})
		return
	}
	h.createComment(c, req)
}

// POST /discussions/:id/comments
func (h *ForumHandler) CreateDiscussionComment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.DiscussionID = id
	h.createComment(c, req)
}

func (h *ForumHandler) createComment(c *gin.Context, req commentReq) {
	s, _ := middleware.Session(c)
	node, err := h.comments.Create(c.Request.Context(), s, req.DiscussionID, req.ParentID, req.Sections)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

// GET /comments/:discussionId
func (h *ForumHandler) Thread(c *gin.Context) {
	id, err := paramID(c, "discussionId")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	forest, err := h.comments.Thread(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, forest)
}

// PUT /comments/:id
func (h *ForumHandler) EditComment(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	node, err := h.comments.Edit(c.Request.Context(), s, id, req.Sections)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, node)
}

// DELETE /comments/:id
func (h *ForumHandler) DeleteComment(c *gin.Context) {
	s, _ := middleware.Session(c)
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	if err := h.comments.Delete(c.Request.Context(), s, id); err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// ReactComment returns the handler for POST /comments/:id/like and /dislike.
func (h *ForumHandler) ReactComment(kind domain.ReactionKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, _ := middleware.Session(c)
		id, err := paramID(c, "id")
		if err != nil {
			respondError(c, h.log, "error", err)
			return
		}
		node, err := h.comments.React(c.Request.Context(), s, id, kind)
		if err != nil {
			respondError(c, h.log, "error", err)
			return
		}
		c.JSON(http.StatusOK, node)
	}
}

// POST /upload
func (h *ForumHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	stored, err := h.files.Save(storage.Discussion, fh)
	if err != nil {
		respondError(c, h.log, "error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fileUrl": stored.URL, "fileType": stored.Ext})
}
