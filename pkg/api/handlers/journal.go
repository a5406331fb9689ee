package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"chatjournal/pkg/journal"
	"chatjournal/pkg/utils"
)

// RegisterJournal registers journal-level operations.
func RegisterJournal(r *mux.Router, env *Env) {
	r.HandleFunc("/journal", env.journalInfo).Methods(http.MethodGet)
	r.HandleFunc("/journal/clear", env.clearJournal).Methods(http.MethodPost)
}

func (e *Env) journalInfo(w http.ResponseWriter, _ *http.Request) {
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Generation string `json:"generation"`
		Count      int    `json:"count"`
	}{Generation: e.Journal.Generation(), Count: len(e.Journal.List())})
}

// clearJournal empties the journal and rotates the storage generation. The
// request must confirm the action via the X-Confirm-Action header.
func (e *Env) clearJournal(w http.ResponseWriter, r *http.Request) {
	if err := e.Journal.ClearAll(headerConfirmer{r}); err != nil {
		if errors.Is(err, journal.ErrNotConfirmed) {
			utils.JSONError(w, http.StatusForbidden, "confirmation required: set X-Confirm-Action: clear_all")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"generation": e.Journal.Generation()})
}
