package app

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/agbru/lazyreg/internal/app.Version=v1.2.3".
var Version = "dev"

// ResolveVersion returns the effective version string. When Version was
// not set at build time it falls back to the module version recorded in
// the build info.
func ResolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// HasVersionFlag reports whether args contain a version flag.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "lazyreg %s\n", ResolveVersion())
}
