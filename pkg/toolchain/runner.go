// pkg/toolchain/runner.go
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// ErrToolchain indicates a toolchain command exited unsuccessfully
var ErrToolchain = errors.New("toolchain command failed")

// Command is one external invocation. Dir and Env are explicit; the
// process working directory and environment are never changed.
type Command struct {
	Dir  string
	Env  map[string]string // added on top of the inherited environment
	Name string
	Args []string
}

// String renders the command line the way a shell user would type it
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if strings.ContainsAny(a, " \t\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Runner executes commands
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner that streams to the process stdout/stderr
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes cmd and wraps a failure in ErrToolchain with its context
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), EnvList(cmd.Env)...)
	}

	if err := c.Run(); err != nil {
		return fmt.Errorf("%w: %s (dir=%s): %v", ErrToolchain, cmd, cmd.Dir, err)
	}
	return nil
}

// EnvList flattens env into sorted KEY=VALUE pairs
func EnvList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
