package reader

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrReaderInUse = errors.New("reader already in use")

var (
	stateLock sync.Mutex
	active    = map[string]bool{}
)

type Options struct {
	// Interval is the time between two polls of the reader.
	Interval time.Duration
	// Debounce is how many identical reads are needed after a change before an event is sent.
	Debounce int
	// Settle is an extra pause after a card has been activated.
	Settle time.Duration
}

func DefaultOptions() Options {
	return Options{
		Interval: 150 * time.Millisecond,
		Debounce: 4,
		Settle:   time.Second,
	}
}

type monitor struct {
	name     string
	events   chan CardEvent
	stop     chan interface{}
	stopOnce sync.Once
	done     chan interface{}
}

func (m *monitor) Events() <-chan CardEvent {
	return m.events
}

// Close stops polling and waits for the poll loop to exit. The event channel is closed afterwards.
func (m *monitor) Close() error {
	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done

		stateLock.Lock()
		delete(active, m.name)
		stateLock.Unlock()
	})
	return nil
}

// Watch starts polling the named reader through src, and returns a CardReader that delivers debounced activation
// and deactivation events. A reader can only be watched once at the time.
func Watch(src Source, name string, opts Options) (CardReader, error) {
	stateLock.Lock()
	if active[name] {
		stateLock.Unlock()
		return nil, ErrReaderInUse
	}
	active[name] = true
	stateLock.Unlock()

	if opts.Debounce < 1 {
		opts.Debounce = 1
	}

	m := &monitor{
		name:   name,
		events: make(chan CardEvent, 10),
		stop:   make(chan interface{}),
		done:   make(chan interface{}),
	}
	go m.poll(src, opts)
	return m, nil
}

func (m *monitor) poll(src Source, opts Options) {
	defer close(m.done)
	defer close(m.events)

	lastConfirmedId, lastSeenId := "", ""
	debounceIndex := 0
	for {
		select {
		case <-m.stop:
			log.Debugf("Monitor for %v stopped. Returning.", m.name)
			return
		case <-time.After(opts.Interval):
			// just do another loop
		}

		id, err := src.CardID(m.name)
		if err != nil {
			log.Debugf("error when reading card ID from %v: %v", m.name, err)
		}

		log.Debugf("ID: %v, lastSeen: %v, lastConfirmed: %v, debounce: %v", id, lastSeenId, lastConfirmedId, debounceIndex)

		if lastSeenId != id {
			lastSeenId = id
			debounceIndex = 0
			continue
		}

		if lastConfirmedId == id {
			continue
		}

		// half reads and cards that are taken in and out quickly should not produce events
		debounceIndex++
		if debounceIndex >= opts.Debounce {
			var ev CardEvent
			if id == "" {
				log.Debugf("Sending deactivation event for %v", m.name)
				ev = CardEvent{Reader: m.name, State: Deactivated}
			} else {
				log.Debugf("Sending activation event for card %v in %v", id, m.name)
				ev = CardEvent{Reader: m.name, State: Activated, CardID: id}
			}

			select {
			case m.events <- ev:
			case <-m.stop:
				return
			}

			if ev.State == Activated && opts.Settle > 0 {
				select {
				case <-time.After(opts.Settle):
				case <-m.stop:
					return
				}
			}
			lastConfirmedId = id
			debounceIndex = 0
		}
	}
}
