package env

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blakesmith/ar"
)

// ErrNotArchive indicates a static library that is not an ar archive
var ErrNotArchive = errors.New("not an ar archive")

const arMagic = "!<arch>\n"

// ArchiveMembers lists the object files inside a static or import library.
// Both Unix .a and MSVC .lib files use the ar container; the symbol and
// long-name tables are skipped.
func ArchiveMembers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	magic := make([]byte, len(arMagic))
	if _, err := io.ReadFull(f, magic); err != nil || string(magic) != arMagic {
		return nil, fmt.Errorf("%w: %s", ErrNotArchive, path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var members []string
	r := ar.NewReader(f)
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ar entry in %s: %w", path, err)
		}

		name := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")
		if isIndexMember(name) {
			continue
		}
		members = append(members, name)
	}

	return members, nil
}

// isIndexMember matches the GNU, BSD and COFF archive symbol tables
func isIndexMember(name string) bool {
	switch {
	case name == "", name == "/", name == "/SYM64":
		return true
	case strings.HasPrefix(name, "__.SYMDEF"):
		return true
	}
	return false
}

// CheckStaticLibrary reports an error unless lib is a non-empty archive.
// Shared libraries are not inspected.
func CheckStaticLibrary(lib *Library) error {
	if lib == nil || !lib.IsStatic {
		return nil
	}
	members, err := ArchiveMembers(lib.Path)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return fmt.Errorf("%w: %s has no members", ErrNotArchive, lib.Path)
	}
	return nil
}
