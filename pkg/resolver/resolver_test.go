package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pkgrecipe/pkg/manifest"
	"github.com/arc-language/pkgrecipe/pkg/platform"
)

func desc(os platform.OS, c platform.Compiler, arch platform.Arch, mode platform.LinkMode) platform.Descriptor {
	return platform.Descriptor{
		OS:        os,
		Compiler:  c,
		Arch:      arch,
		BuildType: platform.Release,
		LinkMode:  mode,
		FPIC:      true,
	}
}

// allDescriptors enumerates every valid combination
func allDescriptors() []platform.Descriptor {
	var out []platform.Descriptor
	for _, os := range platform.AllOS {
		for _, c := range platform.AllCompilers {
			for _, a := range platform.AllArchs {
				for _, m := range []platform.LinkMode{platform.Static, platform.Shared} {
					d := desc(os, c, a, m).Normalize()
					if d.Validate() == nil {
						out = append(out, d)
					}
				}
			}
		}
	}
	return out
}

func TestResolve_ToolchainLinuxMacosAutotools(t *testing.T) {
	plan, err := Resolve(desc(platform.Linux, platform.GCC, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	tc, ok := plan.Toolchain.(Autotools)
	require.True(t, ok)
	assert.Empty(t, tc.ConfigureFlags)

	plan, err = Resolve(desc(platform.Macos, platform.AppleClang, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	tc, ok = plan.Toolchain.(Autotools)
	require.True(t, ok)
	assert.Equal(t, []string{"--disable-mac-universal"}, tc.ConfigureFlags)

	plan, err = Resolve(desc(platform.Macos, platform.Clang, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	assert.Empty(t, plan.Toolchain.(Autotools).ConfigureFlags)
}

func TestResolve_ToolchainWindowsNative(t *testing.T) {
	plan, err := Resolve(desc(platform.Windows, platform.VisualStudio, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	tc, ok := plan.Toolchain.(NativeBuild)
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"MSVS": true}, tc.Definitions)
	assert.Equal(t, "native", plan.Toolchain.Kind())

	plan, err = Resolve(desc(platform.Windows, platform.GCC, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"MSVS": false}, plan.Toolchain.(NativeBuild).Definitions)
}

func TestResolve_MacosAlwaysGetsSDKPatchOnly(t *testing.T) {
	for _, d := range allDescriptors() {
		if d.OS != platform.Macos {
			continue
		}
		plan, err := Resolve(d)
		require.NoError(t, err)
		assert.Equal(t, []string{"mac-sdk-chain"}, plan.PatchNames(), d.String())
	}
}

func TestResolve_WindowsNonGCCHasNoPatches(t *testing.T) {
	for _, d := range allDescriptors() {
		if d.OS != platform.Windows || d.Compiler == platform.GCC {
			continue
		}
		plan, err := Resolve(d)
		require.NoError(t, err)
		assert.Empty(t, plan.Patches, d.String())
	}
}

func TestResolve_WindowsGCCPatch(t *testing.T) {
	plan, err := Resolve(desc(platform.Windows, platform.GCC, platform.ArchX86, platform.Shared))
	require.NoError(t, err)
	assert.Equal(t, []string{"windows-gcc-options"}, plan.PatchNames())
}

func TestResolve_LinuxHasNoPatches(t *testing.T) {
	plan, err := Resolve(desc(platform.Linux, platform.Clang, platform.ArchX86_64, platform.Shared))
	require.NoError(t, err)
	assert.Empty(t, plan.Patches)
}

func TestResolve_LinuxStaticLibsOrder(t *testing.T) {
	plan, err := Resolve(desc(platform.Linux, platform.GCC, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	assert.Equal(t, []string{"portaudio", "jack", "asound", "m", "pthread"}, plan.Info.Libs)
	assert.Empty(t, plan.Info.ExeLinkFlags)
}

func TestResolve_SharedLinuxAndWindowsHaveNoAuxLibs(t *testing.T) {
	for _, d := range []platform.Descriptor{
		desc(platform.Linux, platform.GCC, platform.ArchX86_64, platform.Shared),
		desc(platform.Windows, platform.GCC, platform.ArchX86_64, platform.Shared),
		desc(platform.Windows, platform.VisualStudio, platform.ArchX86, platform.Shared),
	} {
		plan, err := Resolve(d)
		require.NoError(t, err)
		assert.Len(t, plan.Info.Libs, 1, d.String())
	}
}

func TestResolve_WindowsGCCStaticAddsWinmm(t *testing.T) {
	plan, err := Resolve(desc(platform.Windows, platform.GCC, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	assert.Equal(t, []string{"portaudio_static", "winmm"}, plan.Info.Libs)
}

func TestResolve_MacosFrameworksBothModes(t *testing.T) {
	for _, m := range []platform.LinkMode{platform.Static, platform.Shared} {
		plan, err := Resolve(desc(platform.Macos, platform.AppleClang, platform.ArchX86_64, m))
		require.NoError(t, err)
		assert.Equal(t, []string{"portaudio"}, plan.Info.Libs)
		assert.Equal(t, []string{
			"-framework CoreAudio",
			"-framework AudioToolbox",
			"-framework AudioUnit",
			"-framework CoreServices",
			"-framework Carbon",
		}, plan.Info.ExeLinkFlags)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		d    platform.Descriptor
		want string
	}{
		{desc(platform.Windows, platform.VisualStudio, platform.ArchX86, platform.Static), "portaudio_static_x86"},
		{desc(platform.Windows, platform.VisualStudio, platform.ArchX86_64, platform.Static), "portaudio_static_x64"},
		{desc(platform.Windows, platform.VisualStudio, platform.ArchX86, platform.Shared), "portaudio_x86"},
		{desc(platform.Windows, platform.VisualStudio, platform.ArchX86_64, platform.Shared), "portaudio_x64"},
		{desc(platform.Windows, platform.GCC, platform.ArchX86, platform.Static), "portaudio_static"},
		{desc(platform.Windows, platform.GCC, platform.ArchX86, platform.Shared), "portaudio"},
		{desc(platform.Linux, platform.GCC, platform.ArchX86, platform.Static), "portaudio"},
		{desc(platform.Macos, platform.AppleClang, platform.ArchARMv8, platform.Shared), "portaudio"},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, BaseName(tt.d))
		})
	}
}

func TestResolve_LibsAlwaysStartWithBaseName(t *testing.T) {
	for _, d := range allDescriptors() {
		plan, err := Resolve(d)
		require.NoError(t, err)
		require.NotEmpty(t, plan.Info.Libs)
		assert.Equal(t, plan.Info.BaseName, plan.Info.Libs[0], d.String())
	}
}

func TestManifest_WindowsVisualStudioShared(t *testing.T) {
	plan, err := Resolve(desc(platform.Windows, platform.VisualStudio, platform.ArchX86_64, platform.Shared))
	require.NoError(t, err)

	m := plan.Manifest
	for _, c := range []manifest.Category{manifest.Headers, manifest.License, manifest.ImportLib, manifest.SharedLib, manifest.DebugSymbols} {
		assert.True(t, m.Has(c), "missing %s", c)
	}
	assert.False(t, m.Has(manifest.StaticLib))

	dll := m.ByCategory(manifest.SharedLib)
	require.Len(t, dll, 1)
	assert.Equal(t, "*.dll", dll[0].Pattern)
	assert.Equal(t, manifest.BinDir, dll[0].Dst)

	pdb := m.ByCategory(manifest.DebugSymbols)
	require.Len(t, pdb, 1)
	assert.Equal(t, manifest.BinDir, pdb[0].Dst)
}

func TestManifest_WindowsVisualStudioStatic(t *testing.T) {
	plan, err := Resolve(desc(platform.Windows, platform.VisualStudio, platform.ArchX86, platform.Static))
	require.NoError(t, err)

	m := plan.Manifest
	assert.True(t, m.Has(manifest.StaticLib))
	assert.True(t, m.Has(manifest.DebugSymbols))
	assert.False(t, m.Has(manifest.SharedLib))
	assert.False(t, m.Has(manifest.ImportLib))
}

func TestManifest_WindowsGCC(t *testing.T) {
	plan, err := Resolve(desc(platform.Windows, platform.GCC, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	libs := plan.Manifest.ByCategory(manifest.StaticLib)
	require.Len(t, libs, 1)
	assert.Equal(t, "*static.a", libs[0].Pattern)
	assert.False(t, plan.Manifest.Has(manifest.SharedLib))

	plan, err = Resolve(desc(platform.Windows, platform.GCC, platform.ArchX86_64, platform.Shared))
	require.NoError(t, err)
	imp := plan.Manifest.ByCategory(manifest.ImportLib)
	require.Len(t, imp, 1)
	assert.Equal(t, "*.dll.a", imp[0].Pattern)
	assert.Equal(t, manifest.LibDir, imp[0].Dst)
	dll := plan.Manifest.ByCategory(manifest.SharedLib)
	require.Len(t, dll, 1)
	assert.Equal(t, manifest.BinDir, dll[0].Dst)
	assert.False(t, plan.Manifest.Has(manifest.StaticLib))
}

func TestManifest_UnixLibsFromLibtoolDir(t *testing.T) {
	tests := []struct {
		d        platform.Descriptor
		category manifest.Category
		pattern  string
	}{
		{desc(platform.Linux, platform.GCC, platform.ArchX86_64, platform.Static), manifest.StaticLib, "*.a"},
		{desc(platform.Linux, platform.GCC, platform.ArchX86_64, platform.Shared), manifest.SharedLib, "*.so*"},
		{desc(platform.Macos, platform.AppleClang, platform.ArchX86_64, platform.Static), manifest.StaticLib, "*.a"},
		{desc(platform.Macos, platform.AppleClang, platform.ArchX86_64, platform.Shared), manifest.SharedLib, "*.dylib"},
	}

	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			plan, err := Resolve(tt.d)
			require.NoError(t, err)
			entries := plan.Manifest.ByCategory(tt.category)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.pattern, entries[0].Pattern)
			assert.Equal(t, "sources/lib/.libs", entries[0].Src)
			assert.Equal(t, manifest.LibDir, entries[0].Dst)
		})
	}
}

func TestManifest_HeadersAndLicenseAlwaysPresent(t *testing.T) {
	for _, d := range allDescriptors() {
		plan, err := Resolve(d)
		require.NoError(t, err)
		assert.True(t, plan.Manifest.Has(manifest.Headers), d.String())
		assert.True(t, plan.Manifest.Has(manifest.License), d.String())
		assert.True(t, plan.Manifest.Has(manifest.CMakeModule), d.String())
	}
}

func TestManifest_CategoriesDisjoint(t *testing.T) {
	for _, d := range allDescriptors() {
		plan, err := Resolve(d)
		require.NoError(t, err)

		seen := make(map[string]manifest.Category)
		for _, e := range plan.Manifest.Entries {
			key := e.Src + "|" + e.Pattern
			if prev, ok := seen[key]; ok {
				t.Errorf("%s: %s claimed by %s and %s", d, key, prev, e.Category)
			}
			seen[key] = e.Category
		}
	}
}

func TestResolve_InvalidDescriptor(t *testing.T) {
	_, err := Resolve(desc(platform.Linux, platform.VisualStudio, platform.ArchX86_64, platform.Static))
	assert.ErrorIs(t, err, platform.ErrInvalidDescriptor)

	_, err = Resolve(platform.Descriptor{OS: "Solaris", Compiler: platform.GCC, Arch: platform.ArchX86_64})
	assert.ErrorIs(t, err, platform.ErrInvalidDescriptor)
}

func TestResolve_IsDeterministic(t *testing.T) {
	d := desc(platform.Linux, platform.GCC, platform.ArchX86_64, platform.Static)
	a, err := Resolve(d)
	require.NoError(t, err)
	b, err := Resolve(d)
	require.NoError(t, err)

	assert.Equal(t, a.Info, b.Info)
	assert.Equal(t, a.Manifest, b.Manifest)
	assert.Equal(t, a.Toolchain, b.Toolchain)
	assert.Equal(t, a.PatchNames(), b.PatchNames())
}

func TestResolve_WindowsDropsFPIC(t *testing.T) {
	plan, err := Resolve(desc(platform.Windows, platform.GCC, platform.ArchX86_64, platform.Static))
	require.NoError(t, err)
	assert.False(t, plan.Descriptor.FPIC)
}
