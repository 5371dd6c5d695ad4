package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blakesmith/ar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pkgrecipe/pkg/platform"
	"github.com/arc-language/pkgrecipe/pkg/registry"
)

func makePackage(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
	return dir
}

func TestFindLibrary_Linux(t *testing.T) {
	pkg := makePackage(t, "lib/libportaudio.a", "include/portaudio.h")
	e := New(pkg, platform.Linux)

	lib := e.FindLibrary("portaudio")
	require.NotNil(t, lib)
	assert.Equal(t, filepath.Join(pkg, "lib", "libportaudio.a"), lib.Path)
	assert.True(t, lib.IsStatic)

	assert.Nil(t, e.FindSharedLibrary("portaudio"))
	assert.False(t, e.HasLibrary("jack"))
}

func TestFindLibrary_VersionedShared(t *testing.T) {
	pkg := makePackage(t, "lib/libportaudio.so.2")
	lib := New(pkg, platform.Linux).FindSharedLibrary("portaudio")
	require.NotNil(t, lib)
	assert.Equal(t, ".so", lib.Type)
	assert.False(t, lib.IsStatic)
}

func TestFindLibrary_WindowsWithoutPrefix(t *testing.T) {
	pkg := makePackage(t, "lib/portaudio_x64.lib", "bin/portaudio_x64.dll")
	e := New(pkg, platform.Windows)

	assert.True(t, e.HasLibrary("portaudio_x64"))
	dll := e.FindSharedLibrary("portaudio_x64")
	require.NotNil(t, dll)
	assert.Equal(t, filepath.Join(pkg, "bin", "portaudio_x64.dll"), dll.Path)
}

func TestFindLibrary_WindowsGCCStatic(t *testing.T) {
	pkg := makePackage(t, "lib/libportaudio_static.a")
	assert.NotNil(t, New(pkg, platform.Windows).FindStaticLibrary("portaudio_static"))
}

func TestFlags(t *testing.T) {
	pkg := makePackage(t, "lib/libportaudio.a", "include/portaudio.h")
	e := New(pkg, platform.Macos)

	f := e.Flags(&registry.Entry{
		Libs:         []string{"portaudio"},
		ExeLinkFlags: []string{"-framework CoreAudio"},
	})

	assert.Equal(t, "-I"+filepath.Join(pkg, "include"), f.CFlags())
	assert.Equal(t, "-L"+filepath.Join(pkg, "lib")+" -lportaudio -framework CoreAudio", f.LDFlags())
}

func TestFlags_SkipsMissingDirs(t *testing.T) {
	e := New(t.TempDir(), platform.Linux)
	f := e.Flags(nil)
	assert.Empty(t, f.CFlags())
	assert.Empty(t, f.LDFlags())
}

func TestShellExports(t *testing.T) {
	pkg := makePackage(t, "lib/libportaudio.a", "include/portaudio.h", "bin/portaudio.dll")
	e := New(pkg, platform.Linux)
	out := ShellExports(pkg, e.Flags(&registry.Entry{Libs: []string{"portaudio", "m"}}))

	assert.Contains(t, out, `export CFLAGS="-I`+filepath.Join(pkg, "include")+` ${CFLAGS}"`)
	assert.Contains(t, out, `-lportaudio -lm ${LDFLAGS}"`)
	assert.Contains(t, out, `export PATH="`+filepath.Join(pkg, "bin")+`:${PATH}"`)
}

func TestGetLibraryExtensions(t *testing.T) {
	assert.Equal(t, []string{".dylib", ".a"}, GetLibraryExtensions(platform.Macos))
	assert.Equal(t, []string{".so", ".a"}, GetLibraryExtensions(platform.Linux))
	assert.Contains(t, GetLibraryExtensions(platform.Windows), ".dll.a")
}

func writeArchive(t *testing.T, path string, members ...string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := ar.NewWriter(f)
	require.NoError(t, w.WriteGlobalHeader())
	for _, name := range members {
		body := []byte("obj\n")
		require.NoError(t, w.WriteHeader(&ar.Header{Name: name, ModTime: time.Unix(1500000000, 0), Mode: 0644, Size: int64(len(body))}))
		_, err := w.Write(body)
		require.NoError(t, err)
	}
}

func TestArchiveMembers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libportaudio.a")
	writeArchive(t, path, "/", "//", "pa_front.o/", "pa_process.o/")

	members, err := ArchiveMembers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pa_front.o", "pa_process.o"}, members)
}

func TestArchiveMembers_NotArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libportaudio.a")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	_, err := ArchiveMembers(path)
	assert.ErrorIs(t, err, ErrNotArchive)
}

func TestCheckStaticLibrary(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "libempty.a")
	writeArchive(t, empty, "/")
	assert.ErrorIs(t, CheckStaticLibrary(&Library{Path: empty, IsStatic: true}), ErrNotArchive)

	full := filepath.Join(dir, "libportaudio.a")
	writeArchive(t, full, "/", "pa_front.o/")
	assert.NoError(t, CheckStaticLibrary(&Library{Path: full, IsStatic: true}))

	// shared libraries are never opened
	assert.NoError(t, CheckStaticLibrary(&Library{Path: filepath.Join(dir, "missing.so")}))
	assert.NoError(t, CheckStaticLibrary(nil))
}
