// pkg/source/archive.go
package source

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Format is an upstream archive format
type Format string

const (
	FormatTarGz  Format = "tar.gz"
	FormatTarXz  Format = "tar.xz"
	FormatTarZst Format = "tar.zst"
	FormatTar    Format = "tar"
	FormatZip    Format = "zip"
)

// DetectFormat picks the archive format from a file name
func DetectFormat(name string) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tgz"), strings.HasSuffix(lower, ".tar.gz"):
		return FormatTarGz, nil
	case strings.HasSuffix(lower, ".txz"), strings.HasSuffix(lower, ".tar.xz"):
		return FormatTarXz, nil
	case strings.HasSuffix(lower, ".tzst"), strings.HasSuffix(lower, ".tar.zst"):
		return FormatTarZst, nil
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar, nil
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, nil
	}
	return "", fmt.Errorf("unsupported archive: %s", name)
}

// Extract unpacks archivePath into destDir. A single top-level directory
// in the archive is stripped, so destDir holds the project root.
func Extract(archivePath, destDir string, logger *log.Logger) error {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return err
	}

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".extract-*")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	logger.Printf("Extracting %s (%s) -> %s", archivePath, format, destDir)

	if format == FormatZip {
		err = extractZip(archivePath, staging, logger)
	} else {
		err = extractTarFile(archivePath, format, staging, logger)
	}
	if err != nil {
		return err
	}

	root, err := singleRoot(staging)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(destDir); err != nil {
		return fmt.Errorf("removing existing %s: %w", destDir, err)
	}
	if err := os.Rename(root, destDir); err != nil {
		return fmt.Errorf("moving sources into place: %w", err)
	}
	return nil
}

// singleRoot returns dir's only subdirectory when it has exactly one entry
func singleRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading extracted tree: %w", err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

func extractTarFile(archivePath string, format Format, destDir string, logger *log.Logger) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader
	switch format {
	case FormatTarGz:
		logger.Printf("  Using gzip decompression")
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	case FormatTarXz:
		logger.Printf("  Using xz decompression")
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		r = xzReader
	case FormatTarZst:
		logger.Printf("  Using zstd decompression")
		zstdReader, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zstdReader.Close()
		r = zstdReader
	default:
		logger.Printf("  Using uncompressed tar")
		r = f
	}

	return extractTar(tar.NewReader(r), destDir, logger)
}

func extractTar(tarReader *tar.Reader, destDir string, logger *log.Logger) error {
	fileCount := 0
	dirCount := 0
	symlinkCount := 0

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" || cleanPath == "." {
			continue
		}

		targetPath, err := safeJoin(destDir, cleanPath)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			dirCount++

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("creating parent directory for symlink: %w", err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("creating symlink %s -> %s: %w", targetPath, header.Linkname, err)
			}
			symlinkCount++

		case tar.TypeReg:
			if err := writeFile(targetPath, tarReader, os.FileMode(header.Mode)); err != nil {
				return err
			}
			fileCount++

		default:
			logger.Printf("    ⚠️  Skipping unsupported file type %v for %s", header.Typeflag, cleanPath)
		}
	}

	logger.Printf("  ✓ Extraction complete: %d files, %d directories, %d symlinks", fileCount, dirCount, symlinkCount)
	return nil
}

func extractZip(archivePath, destDir string, logger *log.Logger) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer zr.Close()

	fileCount := 0
	for _, zf := range zr.File {
		targetPath, err := safeJoin(destDir, zf.Name)
		if err != nil {
			return err
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", zf.Name, err)
		}
		err = writeFile(targetPath, rc, zf.Mode())
		rc.Close()
		if err != nil {
			return err
		}
		fileCount++
	}

	logger.Printf("  ✓ Extraction complete: %d files", fileCount)
	return nil
}

func writeFile(path string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if mode.Perm() == 0 {
		mode = 0644
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return out.Close()
}

// safeJoin rejects entries that would land outside root
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, name)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}
