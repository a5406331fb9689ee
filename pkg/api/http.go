package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"chatjournal/pkg/api/handlers"
	"chatjournal/pkg/telemetry"
)

// Handler returns the service's HTTP handler: journal message CRUD, the
// comparative capture flow, report export and liveness. Request timing is
// router middleware so the matched route template is available for metric
// labels.
func Handler(env *handlers.Env) http.Handler {
	r := mux.NewRouter()
	r.Use(telemetry.Middleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterMessages(v1, env)
	handlers.RegisterJournal(v1, env)
	handlers.RegisterCompare(v1, env)
	handlers.RegisterReport(v1, env)
	return r
}
