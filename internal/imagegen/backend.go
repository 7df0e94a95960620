package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// Backend abstracts the image generation/editing provider. All methods
// return raw image bytes; persistence is the caller's concern.
type Backend interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
	RemoveBackground(ctx context.Context, image []byte) ([]byte, error)
	RemoveObject(ctx context.Context, image []byte, objectName string) ([]byte, error)
}

// ErrNotConfigured is returned by the placeholder backend.
var ErrNotConfigured = errors.New("image backend not configured")

// PlaceholderBackend is a stub implementation until provider wiring is added.
type PlaceholderBackend struct{}

func (PlaceholderBackend) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return nil, ErrNotConfigured
}

func (PlaceholderBackend) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	return nil, ErrNotConfigured
}

func (PlaceholderBackend) RemoveObject(ctx context.Context, image []byte, objectName string) ([]byte, error) {
	return nil, ErrNotConfigured
}

// NormalizePNG decodes uploaded image bytes and re-encodes them as PNG.
// Rejects payloads that are not decodable images before any network call.
func NormalizePNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
