package reader

import (
	"sync"
	"time"
)

// NewMockReader returns a CardReader that activates and deactivates the same card forever, for trying things out
// without any hardware around.
func NewMockReader(name, cardID string, present, absent time.Duration) CardReader {
	return &mockReader{
		name:    name,
		cardID:  cardID,
		present: present,
		absent:  absent,
		init:    &sync.Once{},
		events:  make(chan CardEvent, 2),
		stop:    make(chan interface{}),
	}
}

type mockReader struct {
	name            string
	cardID          string
	present, absent time.Duration
	init            *sync.Once
	closeOnce       sync.Once
	events          chan CardEvent
	stop            chan interface{}
}

func (m *mockReader) Close() error {
	m.closeOnce.Do(func() {
		close(m.stop)
	})
	return nil
}

func (m *mockReader) send(ev CardEvent, wait time.Duration) bool {
	select {
	case m.events <- ev:
	case <-m.stop:
		return false
	}
	select {
	case <-time.After(wait):
		return true
	case <-m.stop:
		return false
	}
}

func (m *mockReader) Events() <-chan CardEvent {
	m.init.Do(
		func() {
			go func() {
				defer close(m.events)
				for {
					if !m.send(CardEvent{Reader: m.name, CardID: m.cardID, State: Activated}, m.present) {
						return
					}
					if !m.send(CardEvent{Reader: m.name, State: Deactivated}, m.absent) {
						return
					}
				}
			}()
		})

	return m.events
}
