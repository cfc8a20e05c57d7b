package reader

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	mu    sync.Mutex
	reads []string
	errs  map[int]error
	pos   int
}

func (s *scriptedSource) CardID(string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.pos
	if i >= len(s.reads) {
		i = len(s.reads) - 1
	} else {
		s.pos++
	}
	return s.reads[i], s.errs[i]
}

func fastOptions() Options {
	return Options{Interval: time.Millisecond, Debounce: 2}
}

func nextEvent(t *testing.T, r CardReader) CardEvent {
	select {
	case ev, ok := <-r.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for card event")
	}
	return CardEvent{}
}

func noEvent(t *testing.T, r CardReader, wait time.Duration) {
	select {
	case ev := <-r.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(wait):
	}
}

func TestWatchActivation(t *testing.T) {
	src := &scriptedSource{reads: []string{"", "", "", "3b8f", "3b8f", "3b8f", "3b8f", "", "", "", ""}}
	r, err := Watch(src, "activation", fastOptions())
	require.NoError(t, err)
	defer r.Close()

	ev := nextEvent(t, r)
	assert.Equal(t, CardEvent{Reader: "activation", CardID: "3b8f", State: Activated}, ev)

	ev = nextEvent(t, r)
	assert.Equal(t, CardEvent{Reader: "activation", State: Deactivated}, ev)

	noEvent(t, r, 50*time.Millisecond)
}

func TestWatchDebounce(t *testing.T) {
	src := &scriptedSource{reads: []string{"aa", "bb", "aa", "bb", "aa", "", "", "", ""}}
	r, err := Watch(src, "bounce", fastOptions())
	require.NoError(t, err)
	defer r.Close()

	noEvent(t, r, 100*time.Millisecond)
}

func TestWatchReadErrors(t *testing.T) {
	src := &scriptedSource{
		reads: []string{"", "cafe", "cafe", "cafe", "cafe"},
		errs:  map[int]error{0: errors.New("reader unavailable")},
	}
	r, err := Watch(src, "errors", fastOptions())
	require.NoError(t, err)
	defer r.Close()

	ev := nextEvent(t, r)
	assert.Equal(t, Activated, ev.State)
	assert.Equal(t, "cafe", ev.CardID)
}

func TestWatchInUse(t *testing.T) {
	src := &scriptedSource{reads: []string{""}}
	r, err := Watch(src, "busy", fastOptions())
	require.NoError(t, err)

	_, err = Watch(src, "busy", fastOptions())
	assert.Equal(t, ErrReaderInUse, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, open := <-r.Events()
	assert.False(t, open)

	r, err = Watch(src, "busy", fastOptions())
	require.NoError(t, err)
	r.Close()
}

func TestMockReader(t *testing.T) {
	r := NewMockReader("mock", "666", 5*time.Millisecond, 5*time.Millisecond)

	assert.Equal(t, CardEvent{Reader: "mock", CardID: "666", State: Activated}, nextEvent(t, r))
	assert.Equal(t, CardEvent{Reader: "mock", State: Deactivated}, nextEvent(t, r))
	assert.Equal(t, Activated, nextEvent(t, r).State)

	require.NoError(t, r.Close())
	for range r.Events() {
	}
}

func TestCardStateString(t *testing.T) {
	assert.Equal(t, "activated", Activated.String())
	assert.Equal(t, "deactivated", Deactivated.String())
	assert.Equal(t, "CardState(7)", CardState(7).String())
}
