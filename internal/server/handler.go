package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/coral-mesh/sqlcmd/internal/executor"
	"github.com/coral-mesh/sqlcmd/internal/sqlcmd"
)

// maxBodyBytes bounds request bodies; command lines are short.
const maxBodyBytes = 1 << 20

// Handler serves the sqlcmd routes.
type Handler struct {
	dispatcher Dispatcher
	logger     zerolog.Logger
}

// NewHandler creates a handler over d.
func NewHandler(d Dispatcher, logger zerolog.Logger) *Handler {
	return &Handler{dispatcher: d, logger: logger}
}

// RegisterRoutes mounts the handler on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sqlcmd", h.Command)
	})
}

// CommandRequest carries either a raw command line or pre-split arguments.
// Args wins when both are set.
type CommandRequest struct {
	Line string   `json:"line,omitempty"`
	Args []string `json:"args,omitempty"`
}

// CommandResponse is the result of one command. Dry runs set only Query.
type CommandResponse struct {
	Query    string   `json:"query,omitempty"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	Executed bool     `json:"executed"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Command runs one sqlcmd command.
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var (
		result *executor.Result
		err    error
	)
	if len(req.Args) > 0 {
		result, err = h.dispatcher.Run(r.Context(), req.Args)
	} else {
		result, err = h.dispatcher.Dispatch(r.Context(), req.Line)
	}
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Msg("Command failed")
		}
		writeError(w, status, err)
		return
	}

	resp := CommandResponse{
		Query:    result.Query,
		Columns:  result.Columns,
		Rows:     result.Rows,
		Executed: result.Executed,
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	if resp.Rows == nil {
		resp.Rows = [][]any{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	if sqlcmd.IsUserError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	writeJSON(w, statusCode, ErrorResponse{Error: err.Error()})
}
