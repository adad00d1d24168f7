// Package swatch prints avatar palettes to the terminal.
package swatch

import (
	"cmp"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"folio/avatar"
	"folio/fileop"
	"folio/palette"
	"folio/parallel"
	"folio/source"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan ScanCmd `cmd:"" help:"Derive the palette of every image in a folder"`
	Show ShowCmd `cmd:"" help:"Resolve an avatar candidate list and print its palette"`
}

type ScanCmd struct {
	Dir    string    `arg:"" optional:"" help:"Source folder to scan" default:"."`
	PalDir string    `help:"If given, write one RIFF PAL file per image into this folder. Relative to scan dir if not absolute."`
	Out    io.Writer `kong:"-"`
}

func (c *ScanCmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Dir)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Dir, err)
	}
	c.Dir = scanDir

	if (c.PalDir != "") && !filepath.IsAbs(c.PalDir) {
		c.PalDir = filepath.Join(scanDir, c.PalDir)
	}
	return nil
}

func (c *ScanCmd) Run(logger *slog.Logger, worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	entries, err := ScanDir(c.Dir, c.PalDir, logger, worker, wait)
	for _, e := range entries {
		if werr := WriteEntry(out, e); werr != nil {
			return fmt.Errorf("could not write report: %w", werr)
		}
	}
	return err
}

// Entry is the palette of one scanned image.
type Entry struct {
	Name string
	Base palette.RGB
	Spec palette.Spec
}

// ScanDir derives the palette of every decodable image in dir on the given
// worker. Entries come back sorted by file name. Files that cannot be read
// are logged and counted in the returned error.
func ScanDir(dir, palDir string, logger *slog.Logger, worker parallel.WorkerFunc, wait parallel.WaitFunc) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	if palDir != "" {
		if err := os.MkdirAll(palDir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create palette folder %q: %w", palDir, err)
		}
	}

	var (
		mu       sync.Mutex
		entries  []Entry
		errCount atomic.Uint64
	)
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		worker(func(fileName string) func() {
			return func() {
				filePath := filepath.Join(dir, fileName)
				fileLog := logger.With("file", filePath)

				e, err := scanFile(filePath)
				if err != nil {
					errCount.Add(1)
					fileLog.Error("could not derive palette", "error", err)
					return
				}

				if palDir != "" {
					if err := writePal(palDir, fileName, e.Spec); err != nil {
						errCount.Add(1)
						fileLog.Error("could not write palette", "dir", palDir, "error", err)
						return
					}
				}

				mu.Lock()
				entries = append(entries, e)
				mu.Unlock()
			}
		}(file.Name()))
	}

	wait(true)

	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.Name, b.Name) })

	errors := errCount.Load()
	logger.Info("stats", "processed", len(entries), "errors", errors, "total", uint64(len(entries))+errors)
	if errors > 0 {
		return entries, fmt.Errorf("error processing %d files", errors)
	}
	return entries, nil
}

func scanFile(filePath string) (Entry, error) {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return Entry{}, fmt.Errorf("could not open image: %w", err)
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return Entry{}, fmt.Errorf("could not decode image: %w", err)
	}

	spec, base, err := palette.FromImage(img)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: filepath.Base(filePath), Base: base, Spec: spec}, nil
}

func writePal(palDir, fileName string, spec palette.Spec) error {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".pal"
	return fileop.WriteAtomic(palDir, name, func(w io.Writer) error {
		_, err := palette.WriteRIFF(w, spec.Palette())
		return err
	})
}

type ShowCmd struct {
	Candidates []string      `arg:"" help:"Avatar locations in priority order (URLs or paths under the base path)"`
	Public     string        `help:"Folder holding local avatar files" default:"public" env:"FOLIO_PUBLIC"`
	BasePath   string        `help:"URL path local candidates are served under" default:"/" env:"FOLIO_BASE_PATH"`
	Timeout    time.Duration `help:"Timeout for fetching remote avatars" default:"30s" env:"FOLIO_TIMEOUT"`
	Out        io.Writer     `kong:"-"`
}

func (c *ShowCmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Public, err = filepath.Abs(c.Public); err != nil {
		return fmt.Errorf("invalid public path %q: %w", c.Public, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

func (c *ShowCmd) Run(ctx context.Context, logger *slog.Logger) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	return Show(ctx, out, source.New(c.Public, c.BasePath, c.Timeout), c.Candidates, logger)
}

// Show resolves candidates with loader and prints the resulting palette.
func Show(ctx context.Context, w io.Writer, loader *source.Loader, candidates []string, logger *slog.Logger) error {
	var themeSource string
	resolver := avatar.New(candidates, func(src string) { themeSource = src })
	if _, _, err := resolver.Run(ctx, loader, logger); err != nil {
		return fmt.Errorf("could not resolve avatar: %w", err)
	}

	header := mutedStyle.Render("no candidate loaded, using fallback palette")
	if themeSource != "" {
		header = titleStyle.Render(themeSource)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}

	spec := palette.NewExtractor(loader, logger).Derive(ctx, themeSource)
	if err := WriteSpec(w, spec); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}
