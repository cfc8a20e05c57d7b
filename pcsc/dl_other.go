//go:build !(darwin || freebsd || linux)

package pcsc

type dynamicLoader struct{}

func (dynamicLoader) open(string) (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}

func (dynamicLoader) close(uintptr) error {
	return nil
}

func (dynamicLoader) bind(uintptr, *Library) error {
	return ErrUnsupportedPlatform
}
