// pkg/manifest/collect.go
package manifest

import (
	_ "embed"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// CMakeModuleName is the find-module shipped at the package root
const CMakeModuleName = "FindPortaudio.cmake"

//go:embed FindPortaudio.cmake
var cmakeModule []byte

// WriteCMakeModule writes the find-module into dir so the manifest can collect it
func WriteCMakeModule(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, CMakeModuleName), cmakeModule, 0644)
}

// Collector copies manifest entries from a work tree into a package tree
type Collector struct {
	WorkDir    string
	PackageDir string
	Logger     *log.Logger
}

// Collect copies every entry of m and returns the packaged paths, relative
// to the package directory. A required entry that matches nothing fails
// with ErrArtifactMissing.
func (c *Collector) Collect(m *Manifest) ([]string, error) {
	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	pkgAbs, err := filepath.Abs(c.PackageDir)
	if err != nil {
		return nil, fmt.Errorf("resolving package directory: %w", err)
	}

	var packaged []string
	for _, e := range m.Entries {
		files, err := c.collectEntry(e, pkgAbs, logger)
		if err != nil {
			return packaged, err
		}
		if len(files) == 0 {
			if e.Optional {
				logger.Printf("  ⚠️  No %s matched %s in %s (optional)", e.Category, e.Pattern, e.Src)
				continue
			}
			return packaged, fmt.Errorf("%w: no %s matching %q in %s", ErrArtifactMissing, e.Category, e.Pattern, e.Src)
		}
		packaged = append(packaged, files...)
	}

	return packaged, nil
}

func (c *Collector) collectEntry(e Entry, pkgAbs string, logger *log.Logger) ([]string, error) {
	srcRoot := filepath.Join(c.WorkDir, e.Src)
	if _, err := os.Stat(srcRoot); os.IsNotExist(err) {
		return nil, nil
	}

	var copied []string
	err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			// never re-collect our own output
			if abs, _ := filepath.Abs(path); abs == pkgAbs {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchName(e.Pattern, d.Name(), e.IgnoreCase) {
			return nil
		}

		rel := d.Name()
		if !e.Flatten {
			rel, err = filepath.Rel(srcRoot, path)
			if err != nil {
				return err
			}
		}

		dstRel := filepath.Join(e.Dst, rel)
		dst := filepath.Join(c.PackageDir, dstRel)

		if err := copyEntry(path, dst, d); err != nil {
			return fmt.Errorf("copying %s: %w", path, err)
		}

		logger.Printf("    📄 %s -> %s", path, dstRel)
		copied = append(copied, filepath.ToSlash(dstRel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting %s: %w", e.Category, err)
	}

	return copied, nil
}

func matchName(pattern, name string, ignoreCase bool) bool {
	if ignoreCase {
		pattern = strings.ToLower(pattern)
		name = strings.ToLower(name)
	}
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

// copyEntry copies a regular file, or recreates a symlink as-is
func copyEntry(src, dst string, d fs.DirEntry) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	if d.Type()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		os.Remove(dst)
		return os.Symlink(target, dst)
	}

	info, err := d.Info()
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
