package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"chatjournal/pkg/logger"
	"chatjournal/pkg/models"
)

// Key layout:
//
//	journal:active          -> current generation id
//	journal:gen:<id>        -> full ordered message list (JSON array)
//	journal:meta:<id>       -> generation metadata (creation time)
//
// The whole collection is rewritten on every mutation; the active pointer
// is the only coupling between generations. Clear-all rotates to a fresh
// random generation and leaves the old one orphaned but inert.
const (
	activeKey  = "journal:active"
	genPrefix  = "journal:gen:"
	metaPrefix = "journal:meta:"
)

var (
	db     *pebble.DB
	dbPath string
)

// GenMeta records when a journal generation was allocated; the janitor uses
// it to age out orphaned generations.
type GenMeta struct {
	CreatedTS int64 `json:"created_ts"`
}

// Open opens (or creates) a Pebble database at the given path and keeps a
// global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// ActiveGeneration returns the current generation id, allocating one on
// first use.
func ActiveGeneration() (string, error) {
	if db == nil {
		return "", fmt.Errorf("pebble not opened; call store.Open first")
	}
	v, closer, err := db.Get([]byte(activeKey))
	if err == nil {
		gen := string(v)
		_ = closer.Close()
		return gen, nil
	}
	if err != pebble.ErrNotFound {
		return "", err
	}
	return Rotate()
}

// Rotate allocates a fresh random generation id and points the journal at
// it. The previous generation's data is left in place; stale in-flight
// writes against the old id can no longer reach the visible journal.
func Rotate() (string, error) {
	if db == nil {
		return "", fmt.Errorf("pebble not opened; call store.Open first")
	}
	gen := uuid.NewString()
	meta, _ := json.Marshal(GenMeta{CreatedTS: time.Now().UTC().UnixNano()})
	if err := db.Set([]byte(metaPrefix+gen), meta, pebble.Sync); err != nil {
		return "", err
	}
	if err := db.Set([]byte(activeKey), []byte(gen), pebble.Sync); err != nil {
		return "", err
	}
	logger.Info("journal_rotated", "generation", gen)
	return gen, nil
}

// SaveJournal persists the full ordered message list under the given
// generation. The write is atomic from the journal's point of view: one key,
// one synced set.
func SaveJournal(gen string, msgs []models.Message) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := db.Set([]byte(genPrefix+gen), data, pebble.Sync); err != nil {
		saveFailures.Inc()
		logger.Error("journal_save_failed", "generation", gen, "error", err)
		return err
	}
	saves.Inc()
	logger.Debug("journal_saved", "generation", gen, "count", len(msgs))
	return nil
}

// LoadJournal returns the message list stored under the generation. A
// missing key or unreadable record degrades to the empty collection: the
// caller gets a usable journal either way and the failure is logged.
func LoadJournal(gen string) ([]models.Message, error) {
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	v, closer, err := db.Get([]byte(genPrefix + gen))
	if err != nil {
		if err != pebble.ErrNotFound {
			loadFailures.Inc()
			logger.Error("journal_load_failed", "generation", gen, "error", err)
		}
		return []models.Message{}, nil
	}
	defer closer.Close()
	var msgs []models.Message
	if err := json.Unmarshal(v, &msgs); err != nil {
		loadFailures.Inc()
		logger.Error("journal_decode_failed", "generation", gen, "error", err)
		return []models.Message{}, nil
	}
	loads.Inc()
	return msgs, nil
}

// ListGenerations returns every generation id present in the store.
func ListGenerations() ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("pebble not opened; call store.Open first")
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.First(); iter.Valid(); iter.Next() {
		k := string(iter.Key())
		if strings.HasPrefix(k, genPrefix) {
			out = append(out, strings.TrimPrefix(k, genPrefix))
		}
	}
	return out, nil
}

// GetGenMeta returns the metadata record for a generation, if present.
func GetGenMeta(gen string) (GenMeta, bool, error) {
	if db == nil {
		return GenMeta{}, false, fmt.Errorf("pebble not opened; call store.Open first")
	}
	v, closer, err := db.Get([]byte(metaPrefix + gen))
	if err != nil {
		if err == pebble.ErrNotFound {
			return GenMeta{}, false, nil
		}
		return GenMeta{}, false, err
	}
	defer closer.Close()
	var m GenMeta
	if err := json.Unmarshal(v, &m); err != nil {
		return GenMeta{}, false, nil
	}
	return m, true, nil
}

// DeleteGeneration removes a generation's data and metadata. Deleting the
// active generation is refused.
func DeleteGeneration(gen string) error {
	if db == nil {
		return fmt.Errorf("pebble not opened; call store.Open first")
	}
	active, err := ActiveGeneration()
	if err != nil {
		return err
	}
	if gen == active {
		return fmt.Errorf("refusing to delete active generation %s", gen)
	}
	if err := db.Delete([]byte(genPrefix+gen), pebble.Sync); err != nil {
		return err
	}
	if err := db.Delete([]byte(metaPrefix+gen), pebble.Sync); err != nil {
		return err
	}
	logger.Info("generation_deleted", "generation", gen)
	return nil
}
