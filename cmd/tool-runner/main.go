package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/toolsuite/internal/models"
	"github.com/Lllllllleong/toolsuite/internal/services"
	"github.com/Lllllllleong/toolsuite/internal/tools"
)

var (
	runnerInstance *services.RunnerFunction
	once           sync.Once
	initErr        error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// "HandleRunTool" is the entry point name we'll see in GCP.
	functions.HTTP("HandleRunTool", handleRunTool)
}

// main is required by the Go Functions Framework.
func main() {}

func handleRunTool(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		runnerInstance, initErr = services.NewRunner(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.ToolRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := runnerInstance.Process(r.Context(), &req)
	switch {
	case errors.Is(err, tools.ErrToolNotFound), errors.Is(err, tools.ErrComingSoon):
		http.Error(w, "Not Found: "+tools.Message(err), http.StatusNotFound)
		return
	case errors.Is(err, tools.ErrInvalidInput):
		http.Error(w, "Bad Request: "+tools.Message(err), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
