// Package httpapi exposes the planning engine over HTTP: POST /plan accepts
// a TripInput JSON body and returns the TripOutput JSON. Router setup and
// handler registration follow the example pack's gorilla/mux usage
// (china_gtfs/cmd/server/main.go's startServer).
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tripforge/planner/internal/model"
	"github.com/tripforge/planner/orchestrator"
)

var logger = log.New(log.Writer(), "[httpapi] ", log.LstdFlags)

const planTimeout = 5 * time.Minute

// Serve starts the HTTP server on port, blocking until it exits.
func Serve(engine *orchestrator.Engine, port string) {
	router := mux.NewRouter()
	router.HandleFunc("/plan", planHandler(engine)).Methods(http.MethodPost)
	router.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)

	addr := ":" + port
	logger.Printf("listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func planHandler(engine *orchestrator.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input model.TripInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), planTimeout)
		defer cancel()

		output, err := engine.Plan(ctx, input)
		if err != nil {
			writePlanError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(output); err != nil {
			logger.Printf("encoding response: %v", err)
		}
	}
}

func writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrNoWaypoints):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrClusteringFailure):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, model.ErrCancelled):
		http.Error(w, err.Error(), http.StatusRequestTimeout)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
