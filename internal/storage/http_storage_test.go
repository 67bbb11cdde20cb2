package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestFetchImage_RetryLogic(t *testing.T) {
	tests := []struct {
		name           string
		responses      []int
		expectRequests int
		expectError    bool
	}{
		{
			name:           "success on first attempt",
			responses:      []int{200},
			expectRequests: 1,
		},
		{
			name:           "success after transient 5xx",
			responses:      []int{500, 200},
			expectRequests: 2,
		},
		{
			name:           "4xx is not retried",
			responses:      []int{404},
			expectRequests: 1,
			expectError:    true,
		},
		{
			name:           "4xx after 5xx stops retrying",
			responses:      []int{500, 404},
			expectRequests: 2,
			expectError:    true,
		},
		{
			name:           "persistent 5xx exhausts attempts",
			responses:      []int{500, 502, 503},
			expectRequests: 3,
			expectError:    true,
		},
	}

	pngData := testPNG(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				status := tt.responses[len(tt.responses)-1]
				if requestCount < len(tt.responses) {
					status = tt.responses[requestCount]
				}
				requestCount++

				if status == http.StatusOK {
					w.Header().Set("Content-Type", "image/png")
					w.Write(pngData)
					return
				}
				w.WriteHeader(status)
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher(10 * time.Second)
			img, err := fetcher.FetchImage(context.Background(), server.URL)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error")
				}
			} else {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if img == nil {
					t.Fatal("Expected a decoded image")
				}
			}
			if requestCount != tt.expectRequests {
				t.Errorf("Expected %d requests, got %d", tt.expectRequests, requestCount)
			}
		})
	}
}

func TestFetchImage_DecodesImage(t *testing.T) {
	pngData := testPNG(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(10 * time.Second)
	img, err := fetcher.FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("Expected 2x2 image, got %v", img.Bounds())
	}
}

func TestFetchImage_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(10 * time.Second)
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected decode error")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestFetchImage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	fetcher := NewHTTPImageFetcher(10 * time.Second)
	if _, err := fetcher.FetchImage(ctx, server.URL); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
