package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/resolver"
)

type recordingRunner struct {
	cmds   []Command
	failOn string
}

func (r *recordingRunner) Run(ctx context.Context, cmd Command) error {
	r.cmds = append(r.cmds, cmd)
	if r.failOn != "" && cmd.Name == r.failOn {
		return errors.Join(ErrToolchain, errors.New("exit status 2"))
	}
	return nil
}

func plan(t *testing.T, d platform.Descriptor) *resolver.BuildPlan {
	t.Helper()
	p, err := resolver.Resolve(d)
	require.NoError(t, err)
	return p
}

func TestCommands_AutotoolsMacos(t *testing.T) {
	b := &Builder{WorkDir: "/work", Jobs: 4}
	cmds, err := b.Commands(plan(t, platform.Descriptor{
		OS: platform.Macos, Compiler: platform.AppleClang, Arch: platform.ArchX86_64,
		BuildType: platform.Release, LinkMode: platform.Shared, FPIC: true,
	}))
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	assert.Equal(t, "./configure --disable-mac-universal", cmds[0].String())
	assert.Equal(t, filepath.Join("/work", "sources"), cmds[0].Dir)
	assert.Equal(t, "make -j4", cmds[1].String())
	assert.Equal(t, cmds[0].Dir, cmds[1].Dir)
	assert.Equal(t, "-O2 -fPIC -m64", cmds[0].Env["CFLAGS"])
	assert.Equal(t, "-m64", cmds[0].Env["LDFLAGS"])
}

func TestCommands_AutotoolsLinuxDebug(t *testing.T) {
	b := &Builder{WorkDir: "/work", Jobs: 1}
	cmds, err := b.Commands(plan(t, platform.Descriptor{
		OS: platform.Linux, Compiler: platform.GCC, Arch: platform.ArchX86_64,
		BuildType: platform.Debug, LinkMode: platform.Static,
	}))
	require.NoError(t, err)
	assert.Equal(t, "./configure", cmds[0].String())
	assert.Equal(t, "-g -m64", cmds[0].Env["CFLAGS"])
}

func TestCommands_NativeVisualStudio(t *testing.T) {
	b := &Builder{WorkDir: "/work", Jobs: 2}
	cmds, err := b.Commands(plan(t, platform.Descriptor{
		OS: platform.Windows, Compiler: platform.VisualStudio, Arch: platform.ArchX86,
		BuildType: platform.Release, LinkMode: platform.Shared,
	}))
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	assert.Equal(t, "cmake", cmds[0].Name)
	assert.Contains(t, cmds[0].Args, "-DMSVS=ON")
	assert.Contains(t, cmds[0].Args, "-DBUILD_SHARED_LIBS=ON")
	assert.Contains(t, cmds[0].Args, "-DCMAKE_BUILD_TYPE=Release")
	assert.Contains(t, cmds[0].Args, "Win32")
	assert.Nil(t, cmds[0].Env)

	assert.Equal(t, []string{"--build", filepath.Join("/work", "build"), "--config", "Release", "--parallel", "2"}, cmds[1].Args)
}

func TestCommands_NativeGCC(t *testing.T) {
	b := &Builder{WorkDir: "/work", Jobs: 2}
	cmds, err := b.Commands(plan(t, platform.Descriptor{
		OS: platform.Windows, Compiler: platform.GCC, Arch: platform.ArchX86_64,
		BuildType: platform.Release, LinkMode: platform.Static,
	}))
	require.NoError(t, err)
	assert.Contains(t, cmds[0].Args, "-DMSVS=OFF")
	assert.Contains(t, cmds[0].Args, "-DBUILD_SHARED_LIBS=OFF")
	assert.Contains(t, cmds[0].Args, "MinGW Makefiles")
	assert.Contains(t, cmds[0].String(), `"MinGW Makefiles"`)
}

func TestBuild_StopsAtFirstFailure(t *testing.T) {
	r := &recordingRunner{failOn: "./configure"}
	b := &Builder{Runner: r, WorkDir: "/work", Jobs: 1}

	err := b.Build(context.Background(), plan(t, platform.Descriptor{
		OS: platform.Linux, Compiler: platform.GCC, Arch: platform.ArchX86_64,
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolchain)
	assert.Len(t, r.cmds, 1)
}

func TestFixInstallNames(t *testing.T) {
	work := t.TempDir()
	libs := filepath.Join(work, "sources", "lib", ".libs")
	require.NoError(t, os.MkdirAll(libs, 0755))
	for _, name := range []string{"libportaudio.2.dylib", "libportaudio.dylib", "libportaudio.a"} {
		require.NoError(t, os.WriteFile(filepath.Join(libs, name), nil, 0644))
	}

	r := &recordingRunner{}
	b := &Builder{Runner: r, WorkDir: work}
	fixed, err := b.FixInstallNames(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"libportaudio.2.dylib", "libportaudio.dylib"}, fixed)
	require.Len(t, r.cmds, 2)
	assert.Equal(t, "install_name_tool -id libportaudio.2.dylib libportaudio.2.dylib", r.cmds[0].String())
	assert.Equal(t, libs, r.cmds[0].Dir)
}

func TestAutotoolsEnv(t *testing.T) {
	env := AutotoolsEnv(platform.Descriptor{
		OS: platform.Linux, Arch: platform.ArchX86, BuildType: platform.Release, FPIC: true,
	})
	assert.Equal(t, "-O2 -fPIC -m32", env["CFLAGS"])
	assert.Equal(t, env["CFLAGS"], env["CXXFLAGS"])
	assert.Equal(t, "-m32", env["LDFLAGS"])

	env = AutotoolsEnv(platform.Descriptor{OS: platform.Macos, Arch: platform.ArchX86, BuildType: platform.Debug, FPIC: true})
	assert.Equal(t, "-g -fPIC -m32", env["CFLAGS"])
	assert.Equal(t, "-m32", env["LDFLAGS"])

	env = AutotoolsEnv(platform.Descriptor{OS: platform.Macos, Arch: platform.ArchARMv8, BuildType: platform.Release})
	assert.Equal(t, "-O2", env["CFLAGS"])
	_, ok := env["LDFLAGS"]
	assert.False(t, ok)
}

func TestEnvList(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=2"}, EnvList(map[string]string{"B": "2", "A": "1"}))
}

func TestExecRunner_WrapsFailure(t *testing.T) {
	r := &ExecRunner{}
	err := r.Run(context.Background(), Command{Dir: t.TempDir(), Name: "pkgrecipe-no-such-binary"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolchain)
	assert.Contains(t, err.Error(), "pkgrecipe-no-such-binary")
}
