package pcsc

import (
	"runtime"
	"strconv"
	"strings"
)

const (
	// LibraryEnv is the environment variable that overrides which PC/SC library gets loaded.
	LibraryEnv = "PCSC_LIBRARY"

	// DefaultLibrary is handed to dlopen as is, so the regular loader search path applies.
	DefaultLibrary = "libpcsclite.so.1"

	// Framework is the PC/SC implementation shipped with macOS.
	Framework = "/System/Library/Frameworks/PCSC.framework/Versions/Current/PCSC"

	isaToken = "$LIBISA"
)

// fallbacks are tried after DefaultLibrary, for hosts that only have the unversioned development symlink.
var fallbacks = []string{
	"/usr/" + isaToken + "/libpcsclite.so",
	"/usr/local/" + isaToken + "/libpcsclite.so",
}

// Expand replaces the first $LIBISA in lib with the library directory name for the pointer width of the running
// binary: lib64 on 64 bit hosts (Linux convention) and lib otherwise.
func Expand(lib string) string {
	return expand(lib, strconv.IntSize)
}

func expand(lib string, dataModel int) string {
	k := strings.Index(lib, isaToken)
	if k == -1 {
		return lib
	}
	libDir := "lib"
	if dataModel == 64 {
		libDir = "lib64"
	}
	return lib[:k] + libDir + lib[k+len(isaToken):]
}

// LibraryName returns the library that should be loaded first: the expanded override if one is given, or else
// DefaultLibrary.
func LibraryName(override string) string {
	if lib := Expand(strings.TrimSpace(override)); lib != "" {
		return lib
	}
	return DefaultLibrary
}

// Candidates lists every library that Load tries, in order. An override is never combined with the fallbacks, since
// silently loading some other library than the one asked for is worse than failing.
func Candidates(override string) []string {
	return candidates(override, runtime.GOOS)
}

func candidates(override, goos string) []string {
	if lib := Expand(strings.TrimSpace(override)); lib != "" {
		return []string{lib}
	}
	if goos == "darwin" {
		return []string{Framework}
	}
	c := []string{DefaultLibrary}
	for _, f := range fallbacks {
		c = append(c, Expand(f))
	}
	return c
}
