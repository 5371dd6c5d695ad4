// pkg/toolchain/build.go
package toolchain

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/resolver"
)

// Builder turns a build plan into toolchain invocations
type Builder struct {
	Runner  Runner
	WorkDir string // holds sources/ and build/
	Jobs    int    // parallel make jobs; 0 means one per CPU
	Logger  *log.Logger
}

func (b *Builder) logger() *log.Logger {
	if b.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return b.Logger
}

// SourceDir is the extracted upstream tree
func (b *Builder) SourceDir() string {
	return filepath.Join(b.WorkDir, manifest.SourcesDir)
}

// BuildDir is the out-of-tree CMake build directory
func (b *Builder) BuildDir() string {
	return filepath.Join(b.WorkDir, manifest.BuildDir)
}

// Commands returns the invocations that compile the plan, in order
func (b *Builder) Commands(plan *resolver.BuildPlan) ([]Command, error) {
	switch tc := plan.Toolchain.(type) {
	case resolver.Autotools:
		return b.autotoolsCommands(plan.Descriptor, tc), nil
	case resolver.NativeBuild:
		return b.nativeCommands(plan.Descriptor, tc), nil
	default:
		return nil, fmt.Errorf("%w: unknown toolchain %T", ErrToolchain, plan.Toolchain)
	}
}

// Build runs every compile command for the plan
func (b *Builder) Build(ctx context.Context, plan *resolver.BuildPlan) error {
	cmds, err := b.Commands(plan)
	if err != nil {
		return err
	}

	for _, cmd := range cmds {
		b.logger().Printf("Running: %s (dir=%s)", cmd, cmd.Dir)
		if err := b.Runner.Run(ctx, cmd); err != nil {
			return err
		}
	}
	b.logger().Printf("✓ %s build finished", plan.Toolchain.Kind())
	return nil
}

func (b *Builder) autotoolsCommands(d platform.Descriptor, tc resolver.Autotools) []Command {
	env := AutotoolsEnv(d)
	src := b.SourceDir()

	return []Command{
		{Dir: src, Env: env, Name: "./configure", Args: append([]string{}, tc.ConfigureFlags...)},
		{Dir: src, Env: env, Name: "make", Args: []string{fmt.Sprintf("-j%d", b.jobs())}},
	}
}

func (b *Builder) nativeCommands(d platform.Descriptor, tc resolver.NativeBuild) []Command {
	keys := make([]string, 0, len(tc.Definitions))
	for k := range tc.Definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	configure := []string{"-S", b.SourceDir(), "-B", b.BuildDir()}
	for _, k := range keys {
		configure = append(configure, fmt.Sprintf("-D%s=%s", k, onOff(tc.Definitions[k])))
	}
	configure = append(configure,
		"-DCMAKE_BUILD_TYPE="+string(d.BuildType),
		"-DBUILD_SHARED_LIBS="+onOff(d.IsShared()),
	)
	if d.Compiler == platform.VisualStudio {
		if d.Arch == platform.ArchX86 {
			configure = append(configure, "-A", "Win32")
		} else {
			configure = append(configure, "-A", "x64")
		}
	} else {
		configure = append(configure, "-G", "MinGW Makefiles")
	}

	return []Command{
		{Dir: b.WorkDir, Name: "cmake", Args: configure},
		{Dir: b.WorkDir, Name: "cmake", Args: []string{
			"--build", b.BuildDir(),
			"--config", string(d.BuildType),
			"--parallel", fmt.Sprintf("%d", b.jobs()),
		}},
	}
}

// FixInstallNames sets each built dylib's install name to its own file
// name, so consumers do not inherit the build tree's relative path.
func (b *Builder) FixInstallNames(ctx context.Context) ([]string, error) {
	libs := filepath.Join(b.SourceDir(), "lib", ".libs")

	matches, err := filepath.Glob(filepath.Join(libs, "*.dylib"))
	if err != nil {
		return nil, err
	}

	var fixed []string
	for _, m := range matches {
		name := filepath.Base(m)
		cmd := Command{Dir: libs, Name: "install_name_tool", Args: []string{"-id", name, name}}
		b.logger().Printf("Running: %s (dir=%s)", cmd, cmd.Dir)
		if err := b.Runner.Run(ctx, cmd); err != nil {
			return fixed, err
		}
		fixed = append(fixed, name)
	}
	return fixed, nil
}

// AutotoolsEnv returns the compiler environment for ./configure && make
func AutotoolsEnv(d platform.Descriptor) map[string]string {
	var flags []string
	switch d.BuildType {
	case platform.Debug:
		flags = append(flags, "-g")
	default:
		flags = append(flags, "-O2")
	}
	if d.FPIC {
		flags = append(flags, "-fPIC")
	}

	var ldflags []string
	if m := archFlag(d.Arch); m != "" {
		flags = append(flags, m)
		ldflags = append(ldflags, m)
	}

	env := map[string]string{
		"CFLAGS":   strings.Join(flags, " "),
		"CXXFLAGS": strings.Join(flags, " "),
	}
	if len(ldflags) > 0 {
		env["LDFLAGS"] = strings.Join(ldflags, " ")
	}
	return env
}

// archFlag selects the word size for gcc and clang on x86 targets.
// armv8 builds natively and gets none.
func archFlag(a platform.Arch) string {
	switch a {
	case platform.ArchX86:
		return "-m32"
	case platform.ArchX86_64:
		return "-m64"
	}
	return ""
}

func (b *Builder) jobs() int {
	if b.Jobs > 0 {
		return b.Jobs
	}
	return runtime.NumCPU()
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
