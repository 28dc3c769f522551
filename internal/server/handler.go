package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pricescout/pricescout/internal/model"
)

// CompareRequest is the body of POST /functions/v1/compare. Action selects
// the operation; price lookups are the default.
type CompareRequest struct {
	Query   string   `json:"query"`
	Type    string   `json:"type"`
	Action  string   `json:"action,omitempty"`
	Context string   `json:"context,omitempty"`
	Reviews []string `json:"reviews,omitempty"`
}

// Actions understood by the handler. Unknown actions are rejected.
const (
	ActionCompare        = "compare"
	ActionBarcodeLookup  = "barcode-lookup"
	ActionNameLookup     = "name-lookup"
	ActionChat           = "chat"
	ActionSummarize      = "summarize"
	ActionAnalyzeReviews = "analyze-reviews"
)

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.CompareFailure("invalid request body"))
		return
	}

	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, model.CompareFailure("query is required"))
		return
	}
	kind := model.QueryKind(req.Type)
	if !kind.Valid() {
		writeJSON(w, http.StatusBadRequest, model.CompareFailure("type must be one of name, url, barcode"))
		return
	}

	action := req.Action
	if action == "" {
		action = ActionCompare
	}

	switch action {
	case ActionCompare, ActionBarcodeLookup, ActionNameLookup:
		s.handlePriceLookup(w, r, req, kind)
	case ActionChat, ActionSummarize, ActionAnalyzeReviews:
		s.handleTextAnswer(w, r, req, action)
	default:
		writeJSON(w, http.StatusBadRequest, model.CompareFailure("unknown action "+action))
	}
}

// handlePriceLookup asks the completion provider for store/price records.
// The provider is called exactly once; a completion that cannot be parsed as
// a JSON array is not an error, it downgrades to the placeholder records so
// the caller always has rows to render.
func (s *Server) handlePriceLookup(w http.ResponseWriter, r *http.Request, req CompareRequest, kind model.QueryKind) {
	prompt := buildPricePrompt(req.Query, kind)

	completion, err := s.completer.Complete(r.Context(), prompt)
	if err != nil {
		zap.L().Error("completion call failed",
			zap.String("query", req.Query),
			zap.Error(err),
		)
		writeJSON(w, http.StatusBadGateway, model.CompareFailure("price estimation is temporarily unavailable"))
		return
	}

	records := parseRecords(completion)
	if len(records) == 0 {
		zap.L().Info("no parseable records in completion, using placeholders",
			zap.String("query", req.Query),
			zap.Int("completion_len", len(completion)),
		)
		records = fallbackRecords(req.Query)
	}

	writeJSON(w, http.StatusOK, model.CompareSuccess(records, time.Now().UTC()))
}

// handleTextAnswer serves the conversational actions: chat, summarize and
// review analysis all return a text answer instead of records.
func (s *Server) handleTextAnswer(w http.ResponseWriter, r *http.Request, req CompareRequest, action string) {
	prompt := buildTextPrompt(req, action)

	completion, err := s.completer.Complete(r.Context(), prompt)
	if err != nil {
		zap.L().Error("completion call failed",
			zap.String("action", action),
			zap.Error(err),
		)
		writeJSON(w, http.StatusBadGateway, model.CompareFailure("assistant is temporarily unavailable"))
		return
	}

	result := model.CompareSuccess(nil, time.Now().UTC())
	result.Answer = completion
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}
