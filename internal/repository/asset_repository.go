// Package repository resolves asset references into decoded images.
package repository

import (
	"context"
	"fmt"
	"image"
	"net/url"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/storage"
)

// AssetRefs names the source URLs for one creative's assets. Packshot is
// required; the rest may be empty.
type AssetRefs struct {
	PackshotURL   string
	BackgroundURL string
	LogoURL       string
}

// AssetSet holds the decoded assets for one pipeline invocation. Optional
// assets are nil when absent.
type AssetSet struct {
	Packshot   image.Image
	Background image.Image
	Logo       image.Image
}

// AssetRepository loads and validates creative assets.
type AssetRepository interface {
	LoadAssets(ctx context.Context, refs AssetRefs) (*AssetSet, error)
	ValidateAssetURL(rawURL string) error
}

type httpAssetRepository struct {
	fetcher storage.ImageFetcher
}

// NewHTTPAssetRepository creates a repository fetching assets over HTTP.
func NewHTTPAssetRepository(fetcher storage.ImageFetcher) AssetRepository {
	return &httpAssetRepository{fetcher: fetcher}
}

// LoadAssets fetches and decodes every referenced asset. A missing optional
// URL yields a nil asset; a fetch failure on any present URL fails the load.
func (r *httpAssetRepository) LoadAssets(ctx context.Context, refs AssetRefs) (*AssetSet, error) {
	set := &AssetSet{}

	load := func(role, rawURL string, dst *image.Image) error {
		if rawURL == "" {
			return nil
		}
		if err := r.ValidateAssetURL(rawURL); err != nil {
			return fmt.Errorf("%s: %w", role, err)
		}
		img, err := r.fetcher.FetchImage(ctx, rawURL)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", role, err)
		}
		*dst = img
		return nil
	}

	if err := load("packshot", refs.PackshotURL, &set.Packshot); err != nil {
		return nil, err
	}
	if err := load("background", refs.BackgroundURL, &set.Background); err != nil {
		return nil, err
	}
	if err := load("logo", refs.LogoURL, &set.Logo); err != nil {
		return nil, err
	}
	return set, nil
}

// ValidateAssetURL rejects URLs without a scheme or host.
func (r *httpAssetRepository) ValidateAssetURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid host")
	}
	return nil
}
