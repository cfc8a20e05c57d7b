package pcsc

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"unsafe"

	log "github.com/sirupsen/logrus"
)

// Library is a loaded PC/SC implementation with its entry points bound.
type Library struct {
	path   string
	handle uintptr
	close  func(uintptr) error

	establishContext func(scope dword, reserved1, reserved2 unsafe.Pointer, ctx *scardContext) long
	releaseContext   func(ctx scardContext) long
	isValidContext   func(ctx scardContext) long
	cancel           func(ctx scardContext) long
	listReaders      func(ctx scardContext, groups unsafe.Pointer, readers *byte, size *dword) long
	getStatusChange  func(ctx scardContext, timeout dword, states unsafe.Pointer, count dword) long
}

// Path returns the name the library was loaded by.
func (l *Library) Path() string {
	return l.path
}

// Close unloads the library. Contexts established through it must not be used afterwards.
func (l *Library) Close() error {
	if l.close == nil || l.handle == 0 {
		return nil
	}
	err := l.close(l.handle)
	l.handle = 0
	return err
}

type opener interface {
	open(path string) (uintptr, error)
	bind(handle uintptr, lib *Library) error
	close(handle uintptr) error
}

// Loader loads and initializes a PC/SC library exactly once. The outcome, success or failure, is kept so that every
// caller sees the same result.
type Loader struct {
	override string
	dl       opener

	once sync.Once
	lib  *Library
	err  error
}

// NewLoader returns a Loader that uses override as library name, or the platform defaults when override is blank.
func NewLoader(override string) *Loader {
	return &Loader{
		override: override,
		dl:       dynamicLoader{},
	}
}

// Load loads the library on first call. Later calls return the stored result without trying again.
func (l *Loader) Load() (*Library, error) {
	l.once.Do(func() {
		l.lib, l.err = l.load()
	})
	return l.lib, l.err
}

// Err returns the stored initialization failure, or nil if the library is usable.
func (l *Loader) Err() error {
	_, err := l.Load()
	return err
}

func (l *Loader) load() (*Library, error) {
	var errs error
	for _, path := range Candidates(l.override) {
		log.Debugf("Using PC/SC library: %v", path)
		handle, err := l.dl.open(path)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%v: %w", path, err))
			continue
		}

		lib := &Library{
			path:   path,
			handle: handle,
			close:  l.dl.close,
		}
		if err := l.dl.bind(handle, lib); err != nil {
			_ = l.dl.close(handle)
			errs = errors.Join(errs, fmt.Errorf("%v: %w", path, err))
			continue
		}
		log.Debugf("Loaded PC/SC library %v", path)
		return lib, nil
	}
	return nil, fmt.Errorf("pcsc: could not initialize library: %w", errs)
}

var std = &lazyLoader{}

type lazyLoader struct {
	once   sync.Once
	loader *Loader
}

func (s *lazyLoader) get() *Loader {
	s.once.Do(func() {
		s.loader = NewLoader(os.Getenv(LibraryEnv))
	})
	return s.loader
}

// Load loads the library named by the PCSC_LIBRARY environment variable, or the platform default.
func Load() (*Library, error) {
	return std.get().Load()
}

// InitError returns the stored failure of Load. Callers should check it before any smart card operation.
func InitError() error {
	return std.get().Err()
}
