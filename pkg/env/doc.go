// pkg/env/doc.go
package env

/*
Package env exposes a built package to its consumers.

It handles:
  - The fixed package layout (include/, lib/, bin/, licenses/)
  - Generating compiler and linker flags from index.toml link metadata
  - Finding specific libraries within the package

Basic Usage:

    import "github.com/arc-language/pkgrecipe/pkg/env"

    e := env.New("/opt/pkgrecipe/portaudio", platform.Linux)

    flags := e.Flags(entry)
    fmt.Println(flags.CFlags(), flags.LDFlags())

    if lib := e.FindLibrary("portaudio"); lib != nil {
        fmt.Println(lib.Path)
    }
*/
