package usecase

import (
	"context"
	"fmt"
	"mime/multipart"

	"lmsplatform/internal/infrastructure/classifier"
	"lmsplatform/internal/logger"
)

type ClassifierUseCase struct {
	client *classifier.Client
	log    *logger.Logger
}

func NewClassifierUseCase(c *classifier.Client, log *logger.Logger) *ClassifierUseCase {
	return &ClassifierUseCase{client: c, log: log.With("usecase", "classifier")}
}

// Predict relays an uploaded image to the prediction service.
func (uc *ClassifierUseCase) Predict(ctx context.Context, fh *multipart.FileHeader) (*classifier.Response, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	resp, err := uc.client.Predict(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		uc.log.Error("classifier request failed", "file", fh.Filename, "error", err)
		return nil, err
	}
	uc.log.Debug("classifier responded", "status", resp.StatusCode, "bytes", len(resp.Body))
	return resp, nil
}
