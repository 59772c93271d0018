package handlers

import (
	"net/http"

	"lmsplatform/internal/application/usecase"
	"lmsplatform/internal/logger"

	"github.com/gin-gonic/gin"
)

type ClassifierHandler struct {
	classifier *usecase.ClassifierUseCase
	log        *logger.Logger
}

func NewClassifierHandler(uc *usecase.ClassifierUseCase, log *logger.Logger) *ClassifierHandler {
	return &ClassifierHandler{classifier: uc, log: log}
}

// POST /api/cnn-ai/predict relays the upstream status and body unchanged.
func (h *ClassifierHandler) Predict(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file uploaded"})
		return
	}

	resp, err := h.classifier.Predict(c.Request.Context(), fh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error forwarding image to AI server",
			"details": err.Error(),
		})
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = gin.MIMEJSON
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}
