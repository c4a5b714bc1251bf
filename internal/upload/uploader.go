package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/zaakiraza/ResumeAI-sub001/internal/config"
)

// ResourceKind selects the asset host's resource pipeline.
type ResourceKind string

const (
	ResourceAuto  ResourceKind = "auto"
	ResourceImage ResourceKind = "image"
)

const maxResponseBytes = 1 << 20

// Request is a single upload.
type Request struct {
	File         []byte
	Filename     string
	Folder       string
	ResourceKind ResourceKind
}

// Result is the outcome of an upload. Upload never returns an error;
// Success tells callers which fields are meaningful.
type Result struct {
	Success      bool   `json:"success"`
	SecureURL    string `json:"secure_url,omitempty"`
	PublicID     string `json:"public_id,omitempty"`
	Format       string `json:"format,omitempty"`
	Bytes        int64  `json:"bytes,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func failure(format string, args ...any) Result {
	return Result{ErrorMessage: fmt.Sprintf(format, args...)}
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Uploader performs unsigned uploads. It holds no per-request state and is
// safe for concurrent use.
type Uploader struct {
	cfg    config.Cloudinary
	client Doer
}

// Option customizes an Uploader.
type Option func(*Uploader)

// WithHTTPClient replaces the transport used for uploads.
func WithHTTPClient(d Doer) Option {
	return func(u *Uploader) {
		u.client = d
	}
}

// NewUploader creates an Uploader for the given asset-host account.
func NewUploader(cfg config.Cloudinary, opts ...Option) *Uploader {
	u := &Uploader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Endpoint returns the upload URL for the given resource kind.
func (u *Uploader) Endpoint(kind ResourceKind) string {
	base := strings.TrimRight(u.cfg.APIBase, "/")
	return fmt.Sprintf("%s/v1_1/%s/%s/upload", base, url.PathEscape(u.cfg.CloudName), kind)
}

// Upload encodes req as multipart/form-data and posts it to the asset host.
// Missing account configuration fails before any network I/O. Failed uploads
// are not retried.
func (u *Uploader) Upload(ctx context.Context, req Request) Result {
	if u.cfg.CloudName == "" || u.cfg.UploadPreset == "" {
		return failure("asset host is not configured: cloud name and upload preset are required")
	}
	if len(req.File) == 0 {
		return failure("file is empty")
	}

	kind := req.ResourceKind
	if kind == "" {
		kind = ResourceAuto
	}

	endpoint := u.Endpoint(kind)
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return failure("invalid upload endpoint: %v", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return failure("unsupported upload endpoint scheme %q", parsed.Scheme)
	}

	fields := []Field{{Name: "upload_preset", Value: u.cfg.UploadPreset}}
	if req.Folder != "" {
		fields = append(fields, Field{Name: "folder", Value: req.Folder})
	}
	fields = append(fields, Field{Name: "resource_type", Value: string(kind)})

	body, err := EncodeRandom(fields, &FilePart{
		FieldName: "file",
		Filename:  req.Filename,
		Content:   req.File,
	})
	if err != nil {
		return failure("encode upload: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body.Bytes))
	if err != nil {
		return failure("create request: %v", err)
	}
	httpReq.ContentLength = body.Len()
	httpReq.Header.Set("Content-Type", body.ContentType())

	resp, err := u.client.Do(httpReq)
	if err != nil {
		slog.Warn("asset upload transport error", "filename", req.Filename, "error", err)
		return failure("%v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failure("read response: %v", err)
	}

	result := parseResponse(resp, raw)
	if !result.Success {
		slog.Warn("asset upload rejected",
			"filename", req.Filename,
			"status", resp.StatusCode,
			"error", result.ErrorMessage,
		)
		return result
	}

	slog.Info("asset uploaded",
		"public_id", result.PublicID,
		"bytes", result.Bytes,
		"format", result.Format,
	)
	return result
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
	CreatedAt string `json:"created_at"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func parseResponse(resp *http.Response, raw []byte) Result {
	var payload uploadResponse
	parseErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if parseErr == nil && payload.Error != nil && payload.Error.Message != "" {
			return failure("%s", payload.Error.Message)
		}
		return failure("upload failed: %s", resp.Status)
	}

	if parseErr != nil {
		return failure("failed to parse response: %v", parseErr)
	}

	return Result{
		Success:   true,
		SecureURL: payload.SecureURL,
		PublicID:  payload.PublicID,
		Format:    payload.Format,
		Bytes:     payload.Bytes,
		CreatedAt: payload.CreatedAt,
	}
}
