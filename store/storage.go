package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/buntdb"
)

// Probe is the outcome of one attempt to load the PC/SC library and talk to the resource manager.
type Probe struct {
	// ID is the key of the probe, derived from its time.
	ID string `json:"id"`
	// Library is the library that got loaded. Empty if none of the candidates could be loaded.
	Library string `json:"library,omitempty"`
	// Candidates are all the libraries that were considered, in order.
	Candidates []string `json:"candidates"`
	// Error is the stored initialization or context error, if any.
	Error   string    `json:"error,omitempty"`
	Readers []string  `json:"readers,omitempty"`
	Time    time.Time `json:"time"`
}

func (p Probe) OK() bool {
	return p.Error == ""
}

// Card is a card that has been seen in a reader.
type Card struct {
	ATR       string    `json:"atr"`
	Reader    string    `json:"reader"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`
	Seen      int       `json:"seen"`
}

func (c Card) String() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("ATR: %v, reader: %v", c.ATR, c.Reader)
	}
	return string(b)
}

type DB struct {
	instance *buntdb.DB
}

// NewDB opens the database at path. ":memory:" gives a database that is never written to disk.
func NewDB(path string) (*DB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &DB{instance: db}, nil
}

func (db *DB) Close() error {
	return db.instance.Close()
}

func (db *DB) StoreProbe(p *Probe) error {
	if p.Time.IsZero() {
		p.Time = time.Now()
	}
	if p.ID == "" {
		p.ID = p.Time.UTC().Format("20060102T150405.000000000")
	}
	return db.instance.Update(func(tx *buntdb.Tx) error {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(getProbeKey(p.ID), string(data), nil)
		return err
	})
}

func (db *DB) ReadProbe(id string) (Probe, error) {
	var p Probe
	err := db.instance.View(func(tx *buntdb.Tx) error {
		s, err := tx.Get(getProbeKey(id))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(s), &p)
	})
	return p, err
}

// ReadProbes returns all the stored probes, oldest first.
func (db *DB) ReadProbes() ([]Probe, error) {
	var probes []Probe
	err := db.instance.View(func(tx *buntdb.Tx) error {
		var innerErr error
		err := tx.AscendKeys(getProbeKey("*"), func(key, value string) bool {
			var p Probe
			if innerErr = json.Unmarshal([]byte(value), &p); innerErr != nil {
				return false
			}
			probes = append(probes, p)
			return true
		})
		if err != nil {
			return err
		}
		return innerErr
	})
	return probes, err
}

// LatestProbe returns the most recent probe, or buntdb.ErrNotFound if nothing has been stored yet.
func (db *DB) LatestProbe() (Probe, error) {
	var p Probe
	err := db.instance.View(func(tx *buntdb.Tx) error {
		var found string
		err := tx.DescendKeys(getProbeKey("*"), func(key, value string) bool {
			found = value
			return false
		})
		if err != nil {
			return err
		}
		if found == "" {
			return buntdb.ErrNotFound
		}
		return json.Unmarshal([]byte(found), &p)
	})
	return p, err
}

func (db *DB) DeleteProbe(id string) error {
	return db.instance.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(getProbeKey(id))
		return err
	})
}

// TouchCard records that the card with the given ATR was seen in reader at time t.
func (db *DB) TouchCard(reader, atr string, t time.Time) (Card, error) {
	var c Card
	err := db.instance.Update(func(tx *buntdb.Tx) error {
		s, err := tx.Get(getCardKey(atr))
		switch err {
		case nil:
			if err := json.Unmarshal([]byte(s), &c); err != nil {
				return err
			}
		case buntdb.ErrNotFound:
			c = Card{ATR: atr, FirstSeen: t}
		default:
			return err
		}

		c.Reader = reader
		c.LastSeen = t
		c.Seen++

		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(getCardKey(atr), string(data), nil)
		return err
	})
	return c, err
}

func (db *DB) ReadCard(atr string) (Card, error) {
	var c Card
	err := db.instance.View(func(tx *buntdb.Tx) error {
		s, err := tx.Get(getCardKey(atr))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(s), &c)
	})
	return c, err
}

func (db *DB) ReadCards() ([]Card, error) {
	var cards []Card
	err := db.instance.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(getCardKey("*"), func(key, value string) bool {
			var c Card
			if err := json.Unmarshal([]byte(value), &c); err == nil {
				cards = append(cards, c)
			}
			return true
		})
	})
	return cards, err
}

func getProbeKey(id string) string {
	return fmt.Sprintf("probe:%v", id)
}

func getCardKey(atr string) string {
	return fmt.Sprintf("card:%v", strings.ToLower(atr))
}
