//go:build darwin || freebsd || linux

package pcsc

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type dynamicLoader struct{}

func (dynamicLoader) open(path string) (uintptr, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	if h == 0 {
		return 0, fmt.Errorf("dlopen returned a nil handle")
	}
	return h, nil
}

func (dynamicLoader) close(handle uintptr) error {
	return purego.Dlclose(handle)
}

func (dynamicLoader) bind(handle uintptr, lib *Library) error {
	symbols := []struct {
		name string
		fn   any
	}{
		{"SCardEstablishContext", &lib.establishContext},
		{"SCardReleaseContext", &lib.releaseContext},
		{"SCardIsValidContext", &lib.isValidContext},
		{"SCardCancel", &lib.cancel},
		{"SCardListReaders", &lib.listReaders},
		{"SCardGetStatusChange", &lib.getStatusChange},
	}
	for _, s := range symbols {
		addr, err := purego.Dlsym(handle, s.name)
		if err != nil {
			return fmt.Errorf("missing symbol %v: %w", s.name, err)
		}
		purego.RegisterFunc(s.fn, addr)
	}
	return nil
}
