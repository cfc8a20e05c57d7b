package pcsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name      string
		lib       string
		dataModel int
		expected  string
	}{
		{"64 bit", "/usr/$LIBISA/libpcsclite.so", 64, "/usr/lib64/libpcsclite.so"},
		{"32 bit", "/usr/$LIBISA/libpcsclite.so", 32, "/usr/lib/libpcsclite.so"},
		{"no token", "/opt/pcsc/libpcsclite.so.1", 64, "/opt/pcsc/libpcsclite.so.1"},
		{"only first token", "/$LIBISA/$LIBISA", 64, "/lib64/$LIBISA"},
		{"token at end", "/usr/local/$LIBISA", 32, "/usr/local/lib"},
		{"empty", "", 64, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, expand(tc.lib, tc.dataModel))
		})
	}
}

func TestLibraryName(t *testing.T) {
	assert.Equal(t, DefaultLibrary, LibraryName(""))
	assert.Equal(t, DefaultLibrary, LibraryName("   \t"))
	assert.Equal(t, "/opt/libpcsclite.so", LibraryName("  /opt/libpcsclite.so \n"))
	assert.Equal(t, Expand("/usr/$LIBISA/libpcsclite.so.1"), LibraryName("/usr/$LIBISA/libpcsclite.so.1"))
	assert.NotContains(t, LibraryName("/usr/$LIBISA/libpcsclite.so.1"), "$LIBISA")
}

func TestCandidates(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		assert.Equal(t, []string{"/tmp/libfake.so"}, candidates(" /tmp/libfake.so ", "linux"))
		assert.Equal(t, []string{"/tmp/libfake.so"}, candidates("/tmp/libfake.so", "darwin"))
	})

	t.Run("darwin", func(t *testing.T) {
		assert.Equal(t, []string{Framework}, candidates("", "darwin"))
	})

	t.Run("linux", func(t *testing.T) {
		c := candidates("", "linux")
		assert.Len(t, c, 3)
		assert.Equal(t, DefaultLibrary, c[0])
		for _, lib := range c {
			assert.NotContains(t, lib, "$LIBISA")
		}
		assert.Equal(t, Expand("/usr/$LIBISA/libpcsclite.so"), c[1])
		assert.Equal(t, Expand("/usr/local/$LIBISA/libpcsclite.so"), c[2])
	})
}
