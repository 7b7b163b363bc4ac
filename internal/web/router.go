package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router wires every dashboard route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleLanding).Methods(http.MethodGet)
	r.HandleFunc("/activate", s.handleActivate).Methods(http.MethodPost)

	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/active", s.handleSetActive).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/frequency", s.handleSetFrequency).Methods(http.MethodPost)
	r.HandleFunc("/dashboard/failures", s.handleFailures).Methods(http.MethodGet)
	return r
}
