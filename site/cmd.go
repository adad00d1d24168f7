// Package site renders the portfolio page themed by the avatar palette.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"folio/avatar"
	"folio/fileop"
	"folio/palette"
	"folio/source"

	"github.com/alecthomas/kong"
)

const (
	defaultConfig = "profile.yaml"
	pageName      = "index.html"
	paletteName   = "palette.pal"
)

type CLICmd struct {
	Config   string        `help:"Profile YAML file. Defaults are used if the default file is missing." default:"profile.yaml" env:"FOLIO_CONFIG"`
	Public   string        `help:"Folder holding local avatar files, served at the base path" default:"public" env:"FOLIO_PUBLIC"`
	Out      string        `help:"Destination folder for the page. Relative to the working dir if not absolute." default:"dist" env:"FOLIO_OUT"`
	BasePath string        `help:"URL path the site is served under, overrides the profile (e.g. /Myportfolio/)" env:"FOLIO_BASE_PATH"`
	Pal      bool          `help:"Also write the palette as a RIFF PAL file" default:"false"`
	Timeout  time.Duration `help:"Timeout for fetching remote avatars" default:"30s" env:"FOLIO_TIMEOUT"`
	Year     int           `help:"Year shown in the footer, current year if 0" default:"0"`
	Profile  Profile       `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Public, err = filepath.Abs(c.Public); err != nil {
		return fmt.Errorf("invalid public path %q: %w", c.Public, err)
	}
	if c.Out, err = filepath.Abs(c.Out); err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Out, err)
	}

	c.Profile, err = LoadProfile(c.Config)
	if err != nil {
		if (c.Config != defaultConfig) || !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		slog.Warn("profile not found, using defaults", "config", c.Config)
	}

	if c.BasePath != "" {
		c.Profile.Avatar.BasePath = c.BasePath
	}
	if !palette.Fallback().Override(c.Profile.Palette).Valid() {
		return fmt.Errorf("invalid palette override in %q", c.Config)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}

	return nil
}

func (c *CLICmd) Run(ctx context.Context, logger *slog.Logger) error {
	if err := os.MkdirAll(c.Out, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Out, err)
	}

	res, err := Build(ctx, logger, Options{
		Profile: c.Profile,
		Public:  c.Public,
		Out:     c.Out,
		Timeout: c.Timeout,
		Pal:     c.Pal,
		Year:    c.Year,
	})
	if err != nil {
		return err
	}

	logger.Info("stats", "page", filepath.Join(c.Out, pageName), "avatar", res.Avatar, "fallback", res.Palette == palette.Fallback())
	return nil
}

type Options struct {
	Profile Profile
	Public  string
	Out     string
	Timeout time.Duration
	Pal     bool
	Year    int
	// Loader replaces the default file/HTTP loader.
	Loader *source.Loader
}

// Result describes what a build produced.
type Result struct {
	// Avatar is the candidate that loaded, empty if none did.
	Avatar  string
	Palette palette.Spec
}

// Build resolves the avatar, derives the palette and writes the page into
// opts.Out, which must exist.
func Build(ctx context.Context, logger *slog.Logger, opts Options) (Result, error) {
	loader := opts.Loader
	if loader == nil {
		loader = source.New(opts.Public, opts.Profile.Avatar.BasePath, opts.Timeout)
	}
	extractor := palette.NewExtractor(loader, logger)

	var themeSource string
	resolver := avatar.New(opts.Profile.CandidateList(), func(src string) {
		logger.Info("avatar ready", "source", src)
		themeSource = src
	})
	if _, _, err := resolver.Run(ctx, loader, logger); err != nil {
		return Result{}, fmt.Errorf("could not resolve avatar: %w", err)
	}

	spec := extractor.Derive(ctx, themeSource).Override(opts.Profile.Palette)

	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	page := Page{
		Profile: opts.Profile,
		Palette: spec,
		Avatar:  resolver.View(),
		Year:    year,
	}
	if err := fileop.WriteAtomic(opts.Out, pageName, func(w io.Writer) error {
		return Render(w, page)
	}); err != nil {
		return Result{}, err
	}

	if (themeSource != "") && !source.IsRemote(themeSource) {
		rel, err := loader.Rel(themeSource)
		if err != nil {
			return Result{}, err
		}
		if err := fileop.CopyFile(filepath.Join(loader.Public, filepath.FromSlash(rel)), filepath.Join(opts.Out, filepath.FromSlash(rel))); err != nil {
			return Result{}, err
		}
	}

	if opts.Pal {
		if err := fileop.WriteAtomic(opts.Out, paletteName, func(w io.Writer) error {
			_, err := palette.WriteRIFF(w, spec.Palette())
			return err
		}); err != nil {
			return Result{}, err
		}
	}

	return Result{Avatar: themeSource, Palette: spec}, nil
}
