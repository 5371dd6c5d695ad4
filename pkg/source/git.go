// pkg/source/git.go
package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	// DefaultGitURL is the upstream repository used for the master version
	DefaultGitURL = "https://github.com/PortAudio/portaudio"

	// DefaultBranch is cloned when the requested version is "master"
	DefaultBranch = "master"
)

// Clone makes a shallow single-branch clone of url at branch into dest
func Clone(ctx context.Context, url, branch, dest string, progress io.Writer) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("removing existing %s: %w", dest, err)
	}

	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      progress,
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}
