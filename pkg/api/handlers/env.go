package handlers

import (
	"net/http"
	"time"

	"chatjournal/pkg/journal"
	"chatjournal/pkg/report"
)

// Env carries the shared collaborators into the handlers.
type Env struct {
	Journal   *journal.Journal
	Assembler *report.Assembler
	// Location resolves calendar-day boundaries for date filters.
	Location *time.Location
}

func (e *Env) loc() *time.Location {
	if e.Location != nil {
		return e.Location
	}
	return time.Local
}

// headerConfirmer implements journal.Confirmer against the HTTP surface:
// destructive requests must carry the action name in X-Confirm-Action.
type headerConfirmer struct{ r *http.Request }

func (c headerConfirmer) ConfirmDestructiveAction(action string) bool {
	return c.r.Header.Get("X-Confirm-Action") == action
}
