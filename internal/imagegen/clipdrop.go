package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"quickai-backend/internal/shared/telemetry"
)

const defaultBaseURL = "https://clipdrop-api.co"

// maxResponseBytes caps provider responses so a misbehaving endpoint
// cannot exhaust memory.
const maxResponseBytes = 32 << 20

// ClipDropBackend talks to a ClipDrop-compatible image API. Every call
// authenticates with the x-api-key header and returns raw image bytes.
type ClipDropBackend struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClipDropBackend constructs an HTTP image backend.
func NewClipDropBackend(apiKey, baseURL string) (*ClipDropBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("IMAGE_API_KEY is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &ClipDropBackend{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Generate renders an image from a text prompt.
func (b *ClipDropBackend) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}
	return b.do(ctx, "/text-to-image/v1", "application/json", bytes.NewReader(body))
}

// RemoveBackground strips the background from the supplied image.
func (b *ClipDropBackend) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	contentType, body, err := multipartBody(image, nil)
	if err != nil {
		return nil, err
	}
	return b.do(ctx, "/remove-background/v1", contentType, body)
}

// RemoveObject erases the named object from the supplied image.
func (b *ClipDropBackend) RemoveObject(ctx context.Context, image []byte, objectName string) ([]byte, error) {
	contentType, body, err := multipartBody(image, map[string]string{"object": objectName})
	if err != nil {
		return nil, err
	}
	return b.do(ctx, "/remove-object/v1", contentType, body)
}

func (b *ClipDropBackend) do(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "image/*")

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image api %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("image api %s: read body: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image api %s: status %d", path, resp.StatusCode)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image api %s: empty response", path)
	}

	telemetry.Info("imagegen.complete", map[string]any{
		"path":        path,
		"bytes":       len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return data, nil
}

func multipartBody(image []byte, fields map[string]string) (string, io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image_file", "image.png")
	if err != nil {
		return "", nil, err
	}
	if _, err := part.Write(image); err != nil {
		return "", nil, err
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", nil, err
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), &buf, nil
}

var _ Backend = (*ClipDropBackend)(nil)
