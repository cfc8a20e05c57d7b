package pcsc

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	mu       sync.Mutex
	opened   []string
	closed   []uintptr
	handles  map[string]uintptr
	bindErrs map[uintptr]error
}

func (f *fakeOpener) open(path string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, path)
	if h, ok := f.handles[path]; ok {
		return h, nil
	}
	return 0, errors.New("cannot open shared object file")
}

func (f *fakeOpener) bind(handle uintptr, lib *Library) error {
	return f.bindErrs[handle]
}

func (f *fakeOpener) close(handle uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, handle)
	return nil
}

func TestLoaderStoresFailure(t *testing.T) {
	dl := &fakeOpener{}
	l := &Loader{override: "/nowhere/libpcsclite.so", dl: dl}

	lib, err := l.Load()
	assert.Nil(t, lib)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nowhere/libpcsclite.so")

	// the failure is kept, and the library is not tried again
	assert.Equal(t, err, l.Err())
	_, again := l.Load()
	assert.Equal(t, err, again)
	assert.Equal(t, []string{"/nowhere/libpcsclite.so"}, dl.opened)
}

func TestLoaderTriesAllCandidates(t *testing.T) {
	c := Candidates("")
	dl := &fakeOpener{}
	l := &Loader{dl: dl}

	err := l.Err()
	require.Error(t, err)
	assert.Equal(t, c, dl.opened)
	for _, path := range c {
		assert.Contains(t, err.Error(), path)
	}
}

func TestLoaderFallsThrough(t *testing.T) {
	c := Candidates("")
	if len(c) < 2 {
		t.Skip("platform has a single candidate")
	}

	dl := &fakeOpener{
		handles:  map[string]uintptr{c[0]: 1, c[1]: 2},
		bindErrs: map[uintptr]error{1: errors.New("missing symbol SCardCancel")},
	}
	l := &Loader{dl: dl}

	lib, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, c[1], lib.Path())
	assert.Equal(t, []uintptr{1}, dl.closed)

	require.NoError(t, lib.Close())
	assert.Equal(t, []uintptr{1, 2}, dl.closed)
	require.NoError(t, lib.Close())
	assert.Equal(t, []uintptr{1, 2}, dl.closed)
}

func TestLoaderOnce(t *testing.T) {
	dl := &fakeOpener{handles: map[string]uintptr{"libfake.so": 7}}
	l := &Loader{override: "libfake.so", dl: dl}

	var wg sync.WaitGroup
	libs := make([]*Library, 10)
	for i := range libs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			libs[i], _ = l.Load()
		}(i)
	}
	wg.Wait()

	assert.Len(t, dl.opened, 1)
	for _, lib := range libs {
		assert.True(t, lib == libs[0])
	}
	assert.NoError(t, l.Err())
}

func TestDefaultLoaderOverride(t *testing.T) {
	l := NewLoader("/definitely/not/here/libpcsclite.so")
	err := l.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/definitely/not/here/libpcsclite.so")
}

func TestPackageLoaderUsesEnv(t *testing.T) {
	t.Setenv(LibraryEnv, "/definitely/not/here/$LIBISA/libpcsclite.so")

	err := InitError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), Expand("/definitely/not/here/$LIBISA/libpcsclite.so"))

	lib, loadErr := Load()
	assert.Nil(t, lib)
	assert.Equal(t, err, loadErr)
}
