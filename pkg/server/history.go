package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/roofsight/roofsight/pkg/log"
	"github.com/roofsight/roofsight/pkg/types"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultHistoryLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 1 {
			writeJSONError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if v > maxHistoryLimit {
			v = maxHistoryLimit
		}
		limit = v
	}
	lastID := r.URL.Query().Get("lastID")

	recs, err := s.storage.ListAnalyses(ctx, limit, lastID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list analyses", slog.Any("error", err))
		writeJSONError(w, "failed to get analysis history", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []types.AnalysisRecord{}
	}

	writeJSON(w, recs)
}
