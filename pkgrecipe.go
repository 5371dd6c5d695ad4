// pkgrecipe.go
package pkgrecipe

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/pkgrecipe/pkg/core"
	"github.com/arc-language/pkgrecipe/pkg/env"
	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/patch"
	"github.com/arc-language/pkgrecipe/pkg/pipeline"
	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/registry"
	"github.com/arc-language/pkgrecipe/pkg/resolver"
	"github.com/arc-language/pkgrecipe/pkg/source"
	"github.com/arc-language/pkgrecipe/pkg/sysreq"
	"github.com/arc-language/pkgrecipe/pkg/toolchain"
)

// Re-export types for convenience
type (
	Config     = core.Config
	Descriptor = platform.Descriptor
	BuildPlan  = resolver.BuildPlan
	Entry      = registry.Entry
	Result     = pipeline.Result
)

// Stage names, in pipeline order
const (
	StageFetch           = "fetch"
	StagePrepare         = "prepare"
	StagePatch           = "patch"
	StageBuild           = "build"
	StageFixInstallNames = "fix-install-names"
	StageCollect         = "collect"
	StageVerify          = "verify"
	StageMetadata        = "write-metadata"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Recipe builds and packages the library for a platform descriptor
type Recipe struct {
	config  *core.Config
	fetcher *source.Fetcher
	runner  toolchain.Runner
	host    platform.Host
	probe   sysreq.Probe
	logger  *log.Logger
}

// Option customizes a Recipe
type Option func(*Recipe)

// WithRunner replaces the toolchain command runner
func WithRunner(r toolchain.Runner) Option {
	return func(rc *Recipe) { rc.runner = r }
}

// WithFetcher replaces the source fetcher
func WithFetcher(f *source.Fetcher) Option {
	return func(rc *Recipe) { rc.fetcher = f }
}

// WithHost overrides the detected host
func WithHost(h platform.Host) Option {
	return func(rc *Recipe) { rc.host = h }
}

// WithProbe overrides the system package tool probe
func WithProbe(p sysreq.Probe) Option {
	return func(rc *Recipe) { rc.probe = p }
}

// New creates a Recipe
func New(config *Config, opts ...Option) (*Recipe, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if config.Name == "" {
		config.Name = core.DefaultName
	}
	if config.Version == "" {
		config.Version = core.DefaultVersion
	}
	if config.WorkDir == "" {
		return nil, &Error{Op: "init", Package: config.Name, Err: fmt.Errorf("work directory is required")}
	}
	if config.PackageDir == "" {
		config.PackageDir = filepath.Join(config.WorkDir, "package")
	}
	if err := CheckPackageDir(config.WorkDir, config.PackageDir); err != nil {
		return nil, &Error{Op: "init", Package: config.Name, Err: err}
	}

	logger := config.NewLogger("[PKGRECIPE] ")

	r := &Recipe{
		config: config,
		host:   platform.DetectHost(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.runner == nil {
		r.runner = toolchain.NewExecRunner()
	}
	if r.fetcher == nil {
		r.fetcher = source.NewFetcher(&source.Config{
			ArchiveURL: config.ArchiveURL,
			GitURL:     config.GitURL,
			Client:     source.NewClientWithTimeout(config.Timeout),
			Debug:      config.Debug,
			Logger:     logger,
		})
	}
	if r.probe.LookPath == nil {
		r.probe = sysreq.HostProbe()
	}

	if config.Debug {
		r.logger.Printf("Initialized Recipe")
		r.logger.Printf("  Package: %s %s", config.Name, config.Version)
		r.logger.Printf("  WorkDir: %s", config.WorkDir)
		r.logger.Printf("  PackageDir: %s", config.PackageDir)
		r.logger.Printf("  Host: %s", r.host)
	}

	return r, nil
}

// Resolve returns the build plan for d
func (r *Recipe) Resolve(d Descriptor) (*BuildPlan, error) {
	plan, err := resolver.Resolve(d)
	if err != nil {
		return nil, &Error{Op: "resolve", Package: r.config.Name, Err: err}
	}
	return plan, nil
}

// Pipeline assembles the ordered build stages for plan
func (r *Recipe) Pipeline(plan *BuildPlan, out *Entry) *pipeline.Pipeline {
	d := plan.Descriptor
	workDir := r.config.WorkDir
	pkgDir := r.config.PackageDir

	builder := &toolchain.Builder{
		Runner:  r.runner,
		WorkDir: workDir,
		Jobs:    r.config.Jobs,
		Logger:  r.logger,
	}
	srcDir := builder.SourceDir()

	var packaged []string

	p := &pipeline.Pipeline{Logger: r.logger}

	p.Add(StageFetch, func(ctx context.Context) error {
		if err := r.fetcher.Fetch(ctx, r.config.Version, srcDir); err != nil {
			return err
		}
		if d.OS != platform.Windows {
			return source.MakeExecutable(srcDir, patch.ConfigureScript)
		}
		return nil
	})

	p.Add(StagePrepare, func(ctx context.Context) error {
		if err := CheckPackageDir(workDir, pkgDir); err != nil {
			return err
		}
		if err := cleanPackageDir(pkgDir); err != nil {
			return err
		}
		return manifest.WriteCMakeModule(workDir)
	})

	p.Add(StagePatch, func(ctx context.Context) error {
		for _, rule := range plan.Patches {
			r.logger.Printf("  Applying patch %s to %s", rule.Name, rule.File)
		}
		return patch.ApplyAll(srcDir, plan.Patches)
	})

	p.Add(StageBuild, func(ctx context.Context) error {
		return builder.Build(ctx, plan)
	})

	if d.OS == platform.Macos && d.IsShared() {
		p.Add(StageFixInstallNames, func(ctx context.Context) error {
			_, err := builder.FixInstallNames(ctx)
			return err
		})
	}

	p.Add(StageCollect, func(ctx context.Context) error {
		c := &manifest.Collector{WorkDir: workDir, PackageDir: pkgDir, Logger: r.logger}
		files, err := c.Collect(plan.Manifest)
		packaged = files
		return err
	})

	p.Add(StageVerify, func(ctx context.Context) error {
		e := env.New(pkgDir, d.OS)
		lib := e.FindLibrary(plan.Info.BaseName)
		if lib == nil {
			return fmt.Errorf("%w: library %s not found in %s", manifest.ErrArtifactMissing, plan.Info.BaseName, pkgDir)
		}
		if err := env.CheckStaticLibrary(lib); err != nil {
			return fmt.Errorf("%w: %v", manifest.ErrArtifactMissing, err)
		}
		r.logger.Printf("  ✓ Found %s", lib.Path)
		return nil
	})

	p.Add(StageMetadata, func(ctx context.Context) error {
		*out = registry.Entry{
			Name:         r.config.Name,
			Version:      r.config.Version,
			Libs:         plan.Info.Libs,
			ExeLinkFlags: plan.Info.ExeLinkFlags,
			Settings:     d.Settings(),
			Files:        packaged,
		}
		return registry.New(pkgDir).Save(out)
	})

	return p
}

// PackageOutputs are the entries a build writes into the package
// directory. Only these are removed before collecting.
var PackageOutputs = []string{
	manifest.IncludeDir,
	manifest.LibDir,
	manifest.BinDir,
	manifest.LicensesDir,
	manifest.CMakeModuleName,
	registry.IndexFile,
}

// CheckPackageDir rejects a package directory that would overlap the
// work tree: the work directory itself or any parent of it, or a path
// inside the sources or build directories.
func CheckPackageDir(workDir, pkgDir string) error {
	work, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("resolving work directory: %w", err)
	}
	pkg, err := filepath.Abs(pkgDir)
	if err != nil {
		return fmt.Errorf("resolving package directory: %w", err)
	}

	if within(work, pkg) {
		return fmt.Errorf("%w: %s contains the work directory %s", ErrPackageDir, pkg, work)
	}
	for _, dir := range []string{manifest.SourcesDir, manifest.BuildDir} {
		if tree := filepath.Join(work, dir); within(pkg, tree) {
			return fmt.Errorf("%w: %s is inside %s", ErrPackageDir, pkg, tree)
		}
	}
	return nil
}

// within reports whether path equals root or lies below it
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func cleanPackageDir(pkgDir string) error {
	for _, name := range PackageOutputs {
		if err := os.RemoveAll(filepath.Join(pkgDir, name)); err != nil {
			return fmt.Errorf("cleaning package directory: %w", err)
		}
	}
	return nil
}

// Build resolves d, then fetches, patches, compiles and packages it.
// The first failing stage aborts the rest.
func (r *Recipe) Build(ctx context.Context, d Descriptor) (*Entry, *Result, error) {
	plan, err := r.Resolve(d)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Printf("Building %s %s for %s", r.config.Name, r.config.Version, plan.Descriptor)

	entry := &Entry{}
	res, err := r.Pipeline(plan, entry).Run(ctx)
	if err != nil {
		return nil, res, &Error{Op: "build", Package: r.config.Name, Err: err}
	}

	r.logger.Printf("✓ Packaged %s into %s", r.config.Name, r.config.PackageDir)
	return entry, res, nil
}

// SystemRequirements lists the OS packages the build of d needs on this host
func (r *Recipe) SystemRequirements(d Descriptor) []string {
	return sysreq.Requirements(d.Normalize(), sysreq.DetectTool(r.probe), r.host.Arch)
}

// InstallSystemRequirements installs SystemRequirements through the host tool
func (r *Recipe) InstallSystemRequirements(ctx context.Context, d Descriptor) ([]string, error) {
	inst := &sysreq.Installer{
		Runner:  r.runner,
		Probe:   r.probe,
		UseSudo: r.config.UseSudo,
		Logger:  r.logger,
	}
	pkgs, err := inst.Install(ctx, d.Normalize(), r.host.Arch)
	if err != nil {
		return nil, &Error{Op: "system requirements", Package: r.config.Name, Err: err}
	}
	return pkgs, nil
}

// Config returns the recipe configuration
func (r *Recipe) Config() *Config {
	return r.config
}
