package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/structasic/fabgen/pkg/buildinfo"
	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/geom"
	"github.com/structasic/fabgen/pkg/layout"
	"github.com/structasic/fabgen/pkg/pipeline"
)

// GenerateRequest is the body of POST /v1/generate. Each document is
// either inline JSON or a JSON string holding the document text; TOML and
// HCL fabrics must be strings.
type GenerateRequest struct {
	Technology   json.RawMessage `json:"technology"`
	Tiles        json.RawMessage `json:"tiles"`
	Fabric       json.RawMessage `json:"fabric"`
	FabricSyntax string          `json:"fabric_syntax,omitempty"`

	Name    string            `json:"name,omitempty"`
	Formats []string          `json:"formats,omitempty"`
	PinSize *pipeline.PinSize `json:"pin_size,omitempty"`
	Refresh bool              `json:"refresh,omitempty"`
}

// GenerateResponse is the body of a successful generation.
type GenerateResponse struct {
	RunID     string               `json:"run_id"`
	Summary   Summary              `json:"summary"`
	Artifacts map[string]string    `json:"artifacts"`
	Warnings  []ferrors.Diagnostic `json:"warnings,omitempty"`
	Cached    bool                 `json:"cached"`
}

// Summary condenses the statistics of a generated fabric.
type Summary struct {
	Name         string         `json:"name"`
	ArrayRows    int            `json:"array_rows"`
	ArrayCols    int            `json:"array_cols"`
	CoreWidth    float64        `json:"core_width_um"`
	CoreHeight   float64        `json:"core_height_um"`
	DieWidth     float64        `json:"die_width_um"`
	DieHeight    float64        `json:"die_height_um"`
	Cells        int            `json:"total_cells"`
	EdgeCells    int            `json:"total_edge_cells"`
	Pins         int            `json:"total_pins"`
	LeakageWatts float64        `json:"leakage_watts"`
	CellCounts   map[string]int `json:"cell_counts"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	RunID       string               `json:"run_id"`
	Code        ferrors.Code         `json:"code"`
	Error       string               `json:"error"`
	Diagnostics []ferrors.Diagnostic `json:"diagnostics,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := RunID(ctx)
	logger := s.logger.With("run_id", id)

	var req GenerateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(&req); err != nil {
		s.fail(w, id, http.StatusBadRequest, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}

	src, err := req.sources()
	if err != nil {
		s.fail(w, id, http.StatusBadRequest, err)
		return
	}
	in, err := pipeline.ReadInputs(src)
	if err != nil {
		s.fail(w, id, http.StatusUnprocessableEntity, err)
		return
	}

	opts := pipeline.Options{
		Name:    req.Name,
		Formats: req.Formats,
		PinSize: req.PinSize,
		Refresh: req.Refresh,
		Logger:  logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.fail(w, id, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Execute(ctx, in, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if ferrors.Is(err, ferrors.ErrCodeValidation) {
			status = http.StatusUnprocessableEntity
		}
		logger.Warn("generation failed", "err", err)
		s.fail(w, id, status, err)
		return
	}

	artifacts := make(map[string]string, len(result.Artifacts))
	for name, data := range result.Artifacts {
		artifacts[name] = string(data)
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		RunID:     id,
		Summary:   summarize(result.Model),
		Artifacts: artifacts,
		Warnings:  result.Report.Warnings(),
		Cached:    result.CacheInfo.RenderHit(),
	})
}

// sources unwraps the documents of a request.
func (req *GenerateRequest) sources() (pipeline.Sources, error) {
	var src pipeline.Sources
	var err error
	if src.Technology, err = document("technology", req.Technology); err != nil {
		return src, err
	}
	if src.Tiles, err = document("tiles", req.Tiles); err != nil {
		return src, err
	}
	if src.Fabric, err = document("fabric", req.Fabric); err != nil {
		return src, err
	}
	src.FabricSyntax = req.FabricSyntax
	return src, nil
}

// document returns the text of a document given either inline or as a
// JSON string.
func document(field string, raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "%s document is required", field)
	}
	if raw[0] != '"' {
		return raw, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "%s document", field)
	}
	return []byte(text), nil
}

func summarize(m *layout.Model) Summary {
	um := func(dbu int64) float64 { return geom.ToMicrons(dbu, m.DBUPerMicron) }
	return Summary{
		Name:         m.Name,
		ArrayRows:    m.Dims.ArrayRows,
		ArrayCols:    m.Dims.ArrayCols,
		CoreWidth:    um(m.Dims.Core.W()),
		CoreHeight:   um(m.Dims.Core.H()),
		DieWidth:     um(m.Dims.Die.W()),
		DieHeight:    um(m.Dims.Die.H()),
		Cells:        m.Stats.TotalCells,
		EdgeCells:    m.Stats.TotalEdgeCells,
		Pins:         m.Stats.TotalPins,
		LeakageWatts: m.Stats.LeakageWatts,
		CellCounts:   m.Stats.CombinedCounts,
	}
}

// fail writes an error response. Coded errors keep their code and
// diagnostics.
func (s *Server) fail(w http.ResponseWriter, id string, status int, err error) {
	resp := ErrorResponse{
		RunID:       id,
		Code:        ferrors.GetCode(err),
		Error:       ferrors.UserMessage(err),
		Diagnostics: ferrors.DiagnosticsOf(err),
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	if resp.Code == "" {
		resp.Code = ferrors.ErrCodeInternal
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
