// errors.go
package pkgrecipe

import (
	"errors"
	"fmt"

	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/patch"
	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/resolver"
	"github.com/arc-language/pkgrecipe/pkg/source"
	"github.com/arc-language/pkgrecipe/pkg/toolchain"
)

var (
	// ErrFetch indicates the upstream sources could not be fetched or extracted
	ErrFetch = source.ErrFetch

	// ErrPatchTextNotFound indicates a patch no longer matches upstream
	ErrPatchTextNotFound = patch.ErrPatchTextNotFound

	// ErrToolchain indicates a compiler/build tool invocation failed
	ErrToolchain = toolchain.ErrToolchain

	// ErrArtifactMissing indicates the build did not produce an expected file
	ErrArtifactMissing = manifest.ErrArtifactMissing

	// ErrInvalidDescriptor indicates the platform settings are invalid
	ErrInvalidDescriptor = platform.ErrInvalidDescriptor

	// ErrPlatformNotSupported indicates the platform is not supported
	ErrPlatformNotSupported = resolver.ErrUnsupportedPlatform

	// ErrPackageDir indicates a package directory that overlaps the work tree
	ErrPackageDir = errors.New("unsafe package directory")
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
