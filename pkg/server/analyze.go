package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/roofsight/roofsight/pkg/imagery"
	"github.com/roofsight/roofsight/pkg/log"
	"github.com/roofsight/roofsight/pkg/roi"
	"github.com/roofsight/roofsight/pkg/types"
)

// maxUploadBytes caps the multipart form we're willing to buffer.
const maxUploadBytes = 10 << 20

// recordIDLayout is fixed-width so record IDs sort chronologically.
const recordIDLayout = "2006-01-02T15:04:05.000000000Z"

type analyzeResponse struct {
	// ID is empty when the record could not be persisted.
	ID          string               `json:"id,omitempty"`
	ImageWidth  int                  `json:"imageWidth"`
	ImageHeight int                  `json:"imageHeight"`
	Analysis    types.AnalysisReport `json:"analysis"`
	ROI         types.ROIReport      `json:"roi"`
}

func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, "an image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	width, height, err := imagery.DecodeDimensions(file)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode uploaded image", slog.Any("error", err))
		writeJSONError(w, "could not decode image, only JPEG and PNG are supported", http.StatusBadRequest)
		return
	}

	params, err := s.roiParams(r.FormValue("energyCostPerKWH"), r.FormValue("incentiveRate"))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.runAnalysis(ctx, types.AnalysisSourceUpload, width, height, params)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "analysis failed", slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

type analyzeURLRequest struct {
	URL              string   `json:"url"`
	EnergyCostPerKWH *float64 `json:"energyCostPerKWH"`
	IncentiveRate    *float64 `json:"incentiveRate"`
}

func (s *Server) handleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req analyzeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		writeJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	params := s.roiDefaults
	if req.EnergyCostPerKWH != nil {
		params.EnergyCostPerKWH = *req.EnergyCostPerKWH
	}
	if req.IncentiveRate != nil {
		params.IncentiveRate = *req.IncentiveRate
	}
	if err := params.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to fetch image", slog.String("url", req.URL), slog.Any("error", err))
		writeJSONError(w, "could not fetch image from url", http.StatusBadGateway)
		return
	}

	width, height, err := imagery.DecodeDimensions(bytes.NewReader(body))
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode fetched image", slog.String("url", req.URL), slog.Any("error", err))
		writeJSONError(w, "could not decode image, only JPEG and PNG are supported", http.StatusBadRequest)
		return
	}

	resp, err := s.runAnalysis(ctx, types.AnalysisSourceURL, width, height, params)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "analysis failed", slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, resp)
}

// roiParams applies optional form overrides on top of the configured defaults.
func (s *Server) roiParams(energyCost, incentiveRate string) (roi.Params, error) {
	params := s.roiDefaults
	if energyCost != "" {
		v, err := strconv.ParseFloat(energyCost, 64)
		if err != nil {
			return params, fmt.Errorf("invalid energyCostPerKWH: %s", energyCost)
		}
		params.EnergyCostPerKWH = v
	}
	if incentiveRate != "" {
		v, err := strconv.ParseFloat(incentiveRate, 64)
		if err != nil {
			return params, fmt.Errorf("invalid incentiveRate: %s", incentiveRate)
		}
		params.IncentiveRate = v
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}

// runAnalysis runs the analyze -> ROI chain and persists the result. History
// is best-effort: a storage failure is logged and the reports are still
// returned, just without an ID.
func (s *Server) runAnalysis(ctx context.Context, source types.AnalysisSource, width, height int, params roi.Params) (analyzeResponse, error) {
	report, err := s.analyzer.Analyze(ctx, width, height)
	if err != nil {
		return analyzeResponse{}, fmt.Errorf("analyzer failed: %w", err)
	}

	roiReport := roi.Compute(float64(report.EstimatedInstallationCost), float64(report.ExpectedAnnualEnergyKWH), params)

	now := time.Now().UTC()
	rec := types.AnalysisRecord{
		ID:          newRecordID(now),
		Timestamp:   now,
		Source:      source,
		ImageWidth:  width,
		ImageHeight: height,
		Analysis:    report,
		ROI:         roiReport,
	}
	if err := s.storage.InsertAnalysis(ctx, rec); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to persist analysis record", slog.Any("error", err))
		rec.ID = ""
	}

	return analyzeResponse{
		ID:          rec.ID,
		ImageWidth:  width,
		ImageHeight: height,
		Analysis:    report,
		ROI:         roiReport,
	}, nil
}

// newRecordID returns a timestamp-prefixed ID so IDs sort chronologically;
// the random suffix disambiguates same-nanosecond inserts.
func newRecordID(t time.Time) string {
	return fmt.Sprintf("%s-%08x", t.UTC().Format(recordIDLayout), rand.Uint32())
}
