package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/upload"
)

const maxUploadBytes = 10 << 20

// AssetUploader sends files to the asset host.
type AssetUploader interface {
	Upload(ctx context.Context, req upload.Request) upload.Result
}

// UploadHandler forwards resume PDFs and images to the asset host.
type UploadHandler struct {
	uploader AssetUploader
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploader AssetUploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Upload accepts a multipart "file" field and an optional "kind" (auto|image).
func (h *UploadHandler) Upload(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	kind := upload.ResourceKind(c.FormValue("kind"))
	switch kind {
	case "":
		kind = upload.ResourceAuto
	case upload.ResourceAuto, upload.ResourceImage:
	default:
		return &domain.ValidationError{Field: "kind", Message: "must be auto or image"}
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return &domain.ValidationError{Field: "file", Message: "is required"}
	}
	if fh.Size > maxUploadBytes {
		return &domain.ValidationError{Field: "file", Message: fmt.Sprintf("must be at most %d bytes", maxUploadBytes)}
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return fmt.Errorf("read uploaded file: %w", err)
	}
	if len(data) > maxUploadBytes {
		return &domain.ValidationError{Field: "file", Message: fmt.Sprintf("must be at most %d bytes", maxUploadBytes)}
	}

	result := h.uploader.Upload(c.Request().Context(), upload.Request{
		File:         data,
		Filename:     fh.Filename,
		Folder:       fmt.Sprintf("resumeai/users/%d", userID),
		ResourceKind: kind,
	})
	if !result.Success {
		return fmt.Errorf("%w: %s", domain.ErrUpstream, result.ErrorMessage)
	}

	return JSON(c, http.StatusCreated, result)
}
