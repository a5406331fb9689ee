package journal

import (
	"chatjournal/pkg/models"
	"chatjournal/pkg/utils"
)

// CompareState is the comparative-photo capture lifecycle. One session at a
// time: idle (no pending pair), collecting (first photo captured, awaiting
// the second), committing (both captured, persisting). Committing collapses
// back to idle inside the same operation because each mutation is handled to
// completion before the next.
type CompareState int

const (
	CompareIdle CompareState = iota
	CompareCollecting
	CompareCommitting
)

type compareSession struct {
	state CompareState
	group string
	taken int
}

// CompareStatus reports the current capture state and the pending group id.
func (j *Journal) CompareStatus() (CompareState, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.compare.state, j.compare.group
}

// BeginCompare starts a comparative capture session and returns the group
// id the pair will share. Only one session may be open.
func (j *Journal) BeginCompare() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.compare.state != CompareIdle {
		return "", ErrCompareState
	}
	j.compare = compareSession{state: CompareCollecting, group: utils.GenCompareGroupID()}
	return j.compare.group, nil
}

// AttachComparePhoto appends the next photo of the open session. The slot
// claim and the append commit in one critical section, so concurrent
// attaches can never take the same index. The first photo is visible
// immediately as an ordinary image message until its pair arrives; the
// second completes the pair and closes the session. done reports whether
// the pair is complete.
func (j *Journal) AttachComparePhoto(mediaRef, text string) (msg models.Message, done bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.compare.state != CompareCollecting {
		return models.Message{}, false, ErrCompareState
	}
	index := j.compare.taken + 1
	if index == 2 {
		j.compare.state = CompareCommitting
	}

	msg, err = j.appendLocked(models.Message{
		Kind:         models.KindImage,
		Text:         text,
		MediaRef:     mediaRef,
		CompareGroup: j.compare.group,
		CompareIndex: index,
	})
	if err != nil {
		// roll the state back so the caller can retry the same slot
		if index == 2 {
			j.compare.state = CompareCollecting
		}
		return models.Message{}, false, err
	}
	j.compare.taken = index
	if index == 2 {
		j.compare = compareSession{}
		return msg, true, nil
	}
	return msg, false, nil
}

// CancelCompare abandons the open session. A first photo already appended
// stays in the journal as an ordinary single-image message; its pair simply
// never arrives.
func (j *Journal) CancelCompare() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.compare.state == CompareIdle {
		return ErrCompareState
	}
	j.compare = compareSession{}
	return nil
}
