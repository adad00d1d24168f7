// Package fileop writes files so that readers never observe partial content.
package fileop

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// WriteAtomic writes destDir/name through a temporary file in the same
// directory, so readers never see a partial file.
func WriteAtomic(destDir, name string, write func(io.Writer) error) (err error) {
	outFile, err := os.CreateTemp(destDir, name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", name, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); (defErr != nil) && (err == nil) {
			err = fmt.Errorf("could not flush temporary destination %q: %w", name, defErr)
		}
		if defErr := outFile.Close(); (defErr != nil) && (err == nil) {
			err = fmt.Errorf("could not close temporary destination %q: %w", name, defErr)
		}

		if canRename && (err == nil) {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, name)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", name, defErr)
			}
		}
		if err != nil {
			if rmErr := os.Remove(outFile.Name()); rmErr != nil {
				slog.Error("could not remove temporary file", "name", outFile.Name(), "error", rmErr)
			}
		}
	}()

	if err = write(outFile); err != nil {
		return err
	}
	if err = outFile.Chmod(filePerm); err != nil {
		return fmt.Errorf("could not set mode of %q: %w", name, err)
	}

	canRename = true
	return nil
}

func CheckFile(src string) error {
	srcFileInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot stat source file %q: %w", src, err)
	}
	if !srcFileInfo.Mode().IsRegular() {
		return fmt.Errorf("cannot copy non-regular file %q: %s", srcFileInfo.Name(), srcFileInfo.Mode().String())
	}
	return nil
}

// CopyFile copies src to dest, creating dest's directory and replacing any
// existing file.
func CopyFile(src, dest string) error {
	slog.Info("copying", "from", src, "to", dest)

	if err := CheckFile(src); err != nil {
		return err
	}

	destDir := filepath.Dir(dest)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", destDir, err)
	}

	inFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source file %q: %w", src, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close source file", "name", src, "error", closeErr)
		}
	}()

	return WriteAtomic(destDir, filepath.Base(dest), func(w io.Writer) error {
		if _, err := io.Copy(w, inFile); err != nil {
			return fmt.Errorf("could not copy from %q to %q: %w", src, dest, err)
		}
		return nil
	})
}
