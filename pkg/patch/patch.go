// pkg/patch/patch.go
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/pkgrecipe/pkg/platform"
)

// ErrPatchTextNotFound indicates the upstream source no longer contains the
// exact text a replacement expects
var ErrPatchTextNotFound = errors.New("patch text not found")

// Replacement is one exact text substitution
type Replacement struct {
	Old string
	New string
}

// Rule is a platform-conditional set of replacements against one file
type Rule struct {
	Name         string
	File         string // relative to the source directory
	When         func(d platform.Descriptor) bool
	Replacements []Replacement
}

// Applies reports whether the rule's predicate accepts d
func (r *Rule) Applies(d platform.Descriptor) bool {
	return r.When != nil && r.When(d)
}

// ApplyTo runs every replacement against content in order. Each Old text
// must be present; all of its occurrences are replaced.
func (r *Rule) ApplyTo(content []byte) ([]byte, error) {
	out := content
	for i, rep := range r.Replacements {
		if !bytes.Contains(out, []byte(rep.Old)) {
			return nil, fmt.Errorf("%w: rule %s, replacement %d in %s: %q",
				ErrPatchTextNotFound, r.Name, i+1, r.File, firstLine(rep.Old))
		}
		out = bytes.ReplaceAll(out, []byte(rep.Old), []byte(rep.New))
	}
	return out, nil
}

// Apply rewrites the rule's file under sourceDir. The file is only written
// after every replacement matched, so a failure leaves it untouched.
func (r *Rule) Apply(sourceDir string) error {
	path := filepath.Join(sourceDir, r.File)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("patch %s: %w", r.Name, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("patch %s: reading %s: %w", r.Name, r.File, err)
	}

	patched, err := r.ApplyTo(content)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return fmt.Errorf("patch %s: writing %s: %w", r.Name, r.File, err)
	}
	return nil
}

// Select returns the rules whose predicate accepts d, keeping their order
func Select(d platform.Descriptor, rules []*Rule) []*Rule {
	selected := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		if r.Applies(d) {
			selected = append(selected, r)
		}
	}
	return selected
}

// ApplyAll applies rules in order and stops at the first failure
func ApplyAll(sourceDir string, rules []*Rule) error {
	for _, r := range rules {
		if err := r.Apply(sourceDir); err != nil {
			return err
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
