package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateSendsPromptAndKey(t *testing.T) {
	want := []byte("fake-image-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-image/v1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "k123" {
			t.Errorf("x-api-key = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["prompt"] != "a red fox" {
			t.Errorf("prompt = %q", body["prompt"])
		}
		w.Write(want)
	}))
	defer srv.Close()

	b, err := NewClipDropBackend("k123", srv.URL)
	if err != nil {
		t.Fatalf("NewClipDropBackend: %v", err)
	}
	got, err := b.Generate(context.Background(), "a red fox")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRemoveObjectSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remove-object/v1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("object"); got != "watch" {
			t.Errorf("object = %q", got)
		}
		f, _, err := r.FormFile("image_file")
		if err != nil {
			t.Fatalf("image_file: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if len(data) == 0 {
			t.Error("empty image_file part")
		}
		w.Write([]byte("edited"))
	}))
	defer srv.Close()

	b, err := NewClipDropBackend("k123", srv.URL)
	if err != nil {
		t.Fatalf("NewClipDropBackend: %v", err)
	}
	got, err := b.RemoveObject(context.Background(), pngBytes(t), "watch")
	if err != nil {
		t.Fatalf("RemoveObject: %v", err)
	}
	if string(got) != "edited" {
		t.Errorf("got %q", got)
	}
}

func TestBackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	b, _ := NewClipDropBackend("k123", srv.URL)
	if _, err := b.Generate(context.Background(), "anything"); err == nil {
		t.Fatal("expected error on non-200 status")
	} else if !strings.Contains(err.Error(), "status 402") {
		t.Errorf("err = %v", err)
	}
}

func TestNewClipDropBackendRequiresKey(t *testing.T) {
	if _, err := NewClipDropBackend("  ", ""); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestNormalizePNG(t *testing.T) {
	out, err := NormalizePNG(pngBytes(t))
	if err != nil {
		t.Fatalf("NormalizePNG: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Errorf("output is not valid png: %v", err)
	}

	if _, err := NormalizePNG([]byte("not an image")); err == nil {
		t.Error("expected error for junk input")
	}
}
