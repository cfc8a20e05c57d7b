package pcsc

import (
	"bytes"
	"errors"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	log "github.com/sirupsen/logrus"
)

// Context is an established resource manager context.
type Context struct {
	lib      *Library
	ctx      scardContext
	released atomic.Bool
}

// EstablishContext creates a new resource manager context. The context is required by all the reader operations.
func (l *Library) EstablishContext(scope Scope) (*Context, error) {
	var ctx scardContext
	if err := returnCode(l.establishContext(dword(scope), nil, nil, &ctx)); err != nil {
		return nil, err
	}
	log.Debugf("Established PC/SC context %v with %v", ctx, l.path)
	return &Context{lib: l, ctx: ctx}, nil
}

// Release frees the context. Releasing twice returns ErrContextReleased.
func (c *Context) Release() error {
	if !c.released.CompareAndSwap(false, true) {
		return ErrContextReleased
	}
	return returnCode(c.lib.releaseContext(c.ctx))
}

// IsValid asks the resource manager whether the context is still usable, for example after pcscd was restarted.
func (c *Context) IsValid() bool {
	if c.released.Load() {
		return false
	}
	return c.lib.isValidContext(c.ctx) == 0
}

// Cancel aborts a blocking GetStatusChange running on another goroutine. The aborted call returns ErrCancelled.
func (c *Context) Cancel() error {
	if c.released.Load() {
		return ErrContextReleased
	}
	return returnCode(c.lib.cancel(c.ctx))
}

// ListReaders returns the names of the readers known to the resource manager. Having no readers attached is not an
// error.
func (c *Context) ListReaders() ([]string, error) {
	if c.released.Load() {
		return nil, ErrContextReleased
	}

	var size dword
	err := returnCode(c.lib.listReaders(c.ctx, nil, nil, &size))
	if errors.Is(err, ErrNoReaders) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	buf := make([]byte, size)
	err = returnCode(c.lib.listReaders(c.ctx, nil, &buf[0], &size))
	if errors.Is(err, ErrNoReaders) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if int(size) > len(buf) {
		size = dword(len(buf))
	}
	return parseMultiString(buf[:size]), nil
}

// GetStatusChange blocks until the state of one of the readers differs from its CurrentState, or until timeout
// passes. A negative timeout waits forever. EventState and ATR of states are updated in place.
func (c *Context) GetStatusChange(timeout time.Duration, states []ReaderState) error {
	if c.released.Load() {
		return ErrContextReleased
	}
	if len(states) == 0 {
		return nil
	}

	names := make([][]byte, len(states))
	for i, s := range states {
		names[i] = cString(s.Reader)
	}
	buf := nativeLayout.encode(states, names)

	ms := dword(Infinite)
	if timeout >= 0 {
		ms = dword(timeout / time.Millisecond)
	}
	err := returnCode(c.lib.getStatusChange(c.ctx, ms, unsafe.Pointer(&buf[0]), dword(len(states))))
	runtime.KeepAlive(names)
	// pcsc-lite fills in the event state on timeout as well
	if err == nil || errors.Is(err, ErrTimeout) {
		nativeLayout.decode(buf, states)
	}
	return err
}

// Status returns the current state of a single reader without waiting for a change.
func (c *Context) Status(reader string) (ReaderState, error) {
	states := []ReaderState{{Reader: reader, CurrentState: StateUnaware}}
	err := c.GetStatusChange(0, states)
	if err != nil && !errors.Is(err, ErrTimeout) {
		return ReaderState{}, err
	}
	return states[0], nil
}

// parseMultiString splits a double NUL terminated list of strings.
func parseMultiString(b []byte) []string {
	var out []string
	for len(b) > 0 {
		i := bytes.IndexByte(b, 0)
		if i == -1 {
			out = append(out, string(b))
			break
		}
		if i == 0 {
			break
		}
		out = append(out, string(b[:i]))
		b = b[i+1:]
	}
	return out
}
