package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"chatjournal/pkg/logger"
	"chatjournal/pkg/models"
	"chatjournal/pkg/timeline"
	"chatjournal/pkg/utils"
)

// RegisterReport registers the report export endpoint.
func RegisterReport(r *mux.Router, env *Env) {
	r.HandleFunc("/report", env.exportReport).Methods(http.MethodGet)
}

// exportReport assembles the selected subset of the journal into the HTML
// report document. Selection mirrors listMessages: day, from/to, kind.
func (e *Env) exportReport(w http.ResponseWriter, r *http.Request) {
	msgs := e.Journal.List()
	q := r.URL.Query()

	switch {
	case q.Get("day") != "":
		day, err := time.ParseInLocation(dayLayout, q.Get("day"), e.loc())
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid day, want YYYY-MM-DD")
			return
		}
		msgs = timeline.SelectByDate(msgs, day, e.loc())
	case q.Get("from") != "" || q.Get("to") != "":
		from, to, err := parseRange(q.Get("from"), q.Get("to"), e.loc())
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		msgs = timeline.SelectByDateRange(msgs, from, to, e.loc())
	default:
		// whole journal, canonical order; no date clamp, so entries with
		// timestamps ahead of the clock still export
		msgs = timeline.SortAscending(msgs)
	}

	kind := models.Kind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		utils.JSONError(w, http.StatusBadRequest, "unknown kind")
		return
	}
	msgs = timeline.FilterByKind(msgs, kind)

	doc := e.Assembler.Generate(msgs)
	logger.Info("report_generated", "entries", len(msgs), "bytes", len(doc))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
