package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"chatjournal/pkg/journal"
	"chatjournal/pkg/models"
	"chatjournal/pkg/utils"
)

// RegisterCompare registers the comparative-photo capture flow: begin a
// session, attach the two photos, or cancel.
func RegisterCompare(r *mux.Router, env *Env) {
	r.HandleFunc("/compare/begin", env.beginCompare).Methods(http.MethodPost)
	r.HandleFunc("/compare/photo", env.attachComparePhoto).Methods(http.MethodPost)
	r.HandleFunc("/compare/cancel", env.cancelCompare).Methods(http.MethodPost)
	r.HandleFunc("/compare", env.compareStatus).Methods(http.MethodGet)
}

func (e *Env) beginCompare(w http.ResponseWriter, _ *http.Request) {
	group, err := e.Journal.BeginCompare()
	if err != nil {
		utils.JSONError(w, http.StatusConflict, "comparative capture already in progress")
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"group": group})
}

func (e *Env) attachComparePhoto(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MediaRef string `json:"media_ref"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	msg, done, err := e.Journal.AttachComparePhoto(body.MediaRef, body.Text)
	if err != nil {
		if errors.Is(err, journal.ErrCompareState) {
			utils.JSONError(w, http.StatusConflict, "no comparative capture in progress")
			return
		}
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, struct {
		Message models.Message `json:"message"`
		Done    bool           `json:"done"`
	}{Message: msg, Done: done})
}

func (e *Env) cancelCompare(w http.ResponseWriter, _ *http.Request) {
	if err := e.Journal.CancelCompare(); err != nil {
		utils.JSONError(w, http.StatusConflict, "no comparative capture in progress")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"state": "idle"})
}

func (e *Env) compareStatus(w http.ResponseWriter, _ *http.Request) {
	state, group := e.Journal.CompareStatus()
	names := map[journal.CompareState]string{
		journal.CompareIdle:       "idle",
		journal.CompareCollecting: "collecting",
		journal.CompareCommitting: "committing",
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		State string `json:"state"`
		Group string `json:"group,omitempty"`
	}{State: names[state], Group: group})
}
