package palette

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// Loader fetches and decodes an image.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// Extractor turns an image source into a palette. It never fails: every
// problem degrades to Fallback.
type Extractor struct {
	loader Loader
	logger *slog.Logger
}

func NewExtractor(loader Loader, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{loader: loader, logger: logger}
}

// Derive returns the palette of src, or Fallback when src is empty or the
// image cannot be loaded or sampled.
func (e *Extractor) Derive(ctx context.Context, src string) Spec {
	if src == "" {
		return Fallback()
	}

	logger := e.logger.With("source", src)
	base, err := e.base(ctx, src)
	if err != nil {
		logger.Warn("using fallback palette", "error", err)
		return Fallback()
	}

	spec := FromBase(base)
	logger.Debug("derived palette", "base", base, "accent", spec.Accent)
	return spec
}

func (e *Extractor) base(ctx context.Context, src string) (base RGB, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sampling failed: %v", r)
		}
	}()

	if e.loader == nil {
		return RGB{}, fmt.Errorf("no image loader")
	}
	img, err := e.loader.Load(ctx, src)
	if err != nil {
		return RGB{}, fmt.Errorf("could not load image: %w", err)
	}
	if base, err = Sample(img); err != nil {
		return RGB{}, fmt.Errorf("could not sample image: %w", err)
	}
	return base, nil
}
