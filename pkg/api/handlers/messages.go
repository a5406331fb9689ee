package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"chatjournal/pkg/journal"
	"chatjournal/pkg/models"
	"chatjournal/pkg/timeline"
	"chatjournal/pkg/utils"
)

const dayLayout = "2006-01-02"

// RegisterMessages registers HTTP handlers for message endpoints.
func RegisterMessages(r *mux.Router, env *Env) {
	r.HandleFunc("/messages", env.createMessage).Methods(http.MethodPost)
	r.HandleFunc("/messages", env.listMessages).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}", env.deleteMessage).Methods(http.MethodDelete)
}

func (e *Env) createMessage(w http.ResponseWriter, r *http.Request) {
	var m models.Message
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	saved, err := e.Journal.Append(m)
	if err != nil {
		if errors.Is(err, journal.ErrRecordingTooShort) {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		// validation failures are the remaining 400s; store failures are
		// contained inside the journal
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, saved)
}

// listMessages applies the day / from+to / kind selection to the journal.
// Without parameters it returns the full ordered collection.
func (e *Env) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs := e.Journal.List()
	q := r.URL.Query()

	if dayStr := q.Get("day"); dayStr != "" {
		day, err := time.ParseInLocation(dayLayout, dayStr, e.loc())
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid day, want YYYY-MM-DD")
			return
		}
		msgs = timeline.SelectByDate(msgs, day, e.loc())
	} else if q.Get("from") != "" || q.Get("to") != "" {
		from, to, err := parseRange(q.Get("from"), q.Get("to"), e.loc())
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		msgs = timeline.SelectByDateRange(msgs, from, to, e.loc())
	}

	kind := models.Kind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		utils.JSONError(w, http.StatusBadRequest, "unknown kind")
		return
	}
	msgs = timeline.FilterByKind(msgs, kind)

	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Messages []models.Message `json:"messages"`
	}{Messages: msgs})
}

func (e *Env) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := e.Journal.Delete(id); err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			utils.JSONError(w, http.StatusNotFound, "message not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"deleted": id})
}

// parseRange parses from/to day strings; a missing side collapses to the
// other, so a single bound selects that one day.
func parseRange(fromStr, toStr string, loc *time.Location) (time.Time, time.Time, error) {
	if fromStr == "" {
		fromStr = toStr
	}
	if toStr == "" {
		toStr = fromStr
	}
	from, err := time.ParseInLocation(dayLayout, fromStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid from, want YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dayLayout, toStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid to, want YYYY-MM-DD")
	}
	return from, to, nil
}
