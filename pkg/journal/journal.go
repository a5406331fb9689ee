// Package journal owns the authoritative in-memory message collection and
// its persistence. Every mutation rewrites the whole collection under the
// active store generation before the next one is handled; the store is
// single-writer and last-write-wins.
package journal

import (
	"errors"
	"sync"
	"time"

	"chatjournal/pkg/logger"
	"chatjournal/pkg/models"
	"chatjournal/pkg/store"
	"chatjournal/pkg/utils"
	"chatjournal/pkg/validation"
)

var (
	ErrNotFound          = errors.New("message not found")
	ErrRecordingTooShort = errors.New("recording shorter than minimum duration")
	ErrNotConfirmed      = errors.New("destructive action not confirmed")
	ErrCompareState      = errors.New("comparative capture not in a valid state for this operation")
)

// Confirmer is the capability interface for destructive-action confirmation.
// The HTTP host implements it against whatever confirmation surface the
// platform offers; the journal core only depends on the decision.
type Confirmer interface {
	ConfirmDestructiveAction(action string) bool
}

// Journal is the app core: the ordered message collection plus the
// comparative-capture session.
type Journal struct {
	mu     sync.Mutex
	gen    string
	msgs   []models.Message
	author models.Author
	minRec time.Duration

	compare compareSession
}

// Open loads the collection stored under the active generation. A missing
// or unreadable record yields an empty journal, never an error.
func Open(author models.Author, minRecording time.Duration) (*Journal, error) {
	gen, err := store.ActiveGeneration()
	if err != nil {
		return nil, err
	}
	msgs, err := store.LoadJournal(gen)
	if err != nil {
		return nil, err
	}
	logger.Info("journal_opened", "generation", gen, "count", len(msgs))
	return &Journal{gen: gen, msgs: msgs, author: author, minRec: minRecording}, nil
}

// Generation returns the active store generation id.
func (j *Journal) Generation() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.gen
}

// List returns a copy of the full ordered collection.
func (j *Journal) List() []models.Message {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]models.Message, len(j.msgs))
	copy(out, j.msgs)
	return out
}

// Append validates and appends a message, then persists the updated
// collection. Missing ID, timestamp and author are filled in. A persist
// failure is logged but not propagated: the in-memory state stays ahead of
// the store and remains correct for the current session.
func (j *Journal) Append(m models.Message) (models.Message, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.appendLocked(m)
}

// appendLocked is Append's body. Callers hold j.mu, so state that must
// commit together with the append (the compare session's slot claim) can be
// updated in the same critical section.
func (j *Journal) appendLocked(m models.Message) (models.Message, error) {
	if m.ID == "" {
		m.ID = utils.GenMessageID()
	}
	if m.CreatedTS == 0 {
		m.CreatedTS = time.Now().UTC().UnixNano()
	}
	if m.Author.ID == "" {
		m.Author = j.author
	}
	if m.Kind == models.KindAudio && j.minRec > 0 && time.Duration(m.DurationMS)*time.Millisecond < j.minRec {
		return models.Message{}, ErrRecordingTooShort
	}
	if err := validation.ValidateMessage(m); err != nil {
		return models.Message{}, err
	}
	j.msgs = append(j.msgs, m)
	j.persistLocked()
	logger.Info("message_appended", "id", m.ID, "kind", m.Kind)
	return m, nil
}

// Delete removes the message with the given id and persists the updated
// collection.
func (j *Journal) Delete(id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, m := range j.msgs {
		if m.ID == id {
			j.msgs = append(j.msgs[:i], j.msgs[i+1:]...)
			j.persistLocked()
			logger.Info("message_deleted", "id", id)
			return nil
		}
	}
	return ErrNotFound
}

// ClearAll empties the collection after the Confirmer approves. The store
// generation is rotated so stale in-flight writes against the old key
// cannot resurrect cleared data; the orphaned generation stays on disk for
// the janitor.
func (j *Journal) ClearAll(confirm Confirmer) error {
	if confirm == nil || !confirm.ConfirmDestructiveAction("clear_all") {
		return ErrNotConfirmed
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	gen, err := store.Rotate()
	if err != nil {
		return err
	}
	old := j.gen
	j.gen = gen
	j.msgs = nil
	j.compare = compareSession{}
	j.persistLocked()
	logger.Info("journal_cleared", "old_generation", old, "generation", gen)
	return nil
}

// persistLocked writes the whole collection under the active generation.
// Callers hold j.mu. Errors are already logged by the store; the in-memory
// collection is the session's source of truth either way.
func (j *Journal) persistLocked() {
	_ = store.SaveJournal(j.gen, j.msgs)
}
