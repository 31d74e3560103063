package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/structasic/fabgen/internal/testutil"
	"github.com/structasic/fabgen/pkg/buildinfo"
	"github.com/structasic/fabgen/pkg/cache"
	ferrors "github.com/structasic/fabgen/pkg/errors"
	"github.com/structasic/fabgen/pkg/observability"
	"github.com/structasic/fabgen/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(&bytes.Buffer{})
	}
	s := New(cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func quoted(t *testing.T, s string) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func demoRequest() GenerateRequest {
	return GenerateRequest{
		Technology: json.RawMessage(testutil.TechnologyJSON),
		Tiles:      json.RawMessage(testutil.TilesJSON),
		Fabric:     json.RawMessage(testutil.FabricJSON),
	}
}

func post(t *testing.T, ts *httptest.Server, body any) *http.Response {
	t.Helper()
	var data []byte
	switch b := body.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		if data, err = json.Marshal(b); err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	resp, err := http.Post(ts.URL+"/v1/generate", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /v1/generate: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(RunIDHeader) == "" {
		t.Errorf("%s header missing", RunIDHeader)
	}
	got := decode[HealthResponse](t, resp)
	if got.Status != "ok" || got.Version != buildinfo.Version {
		t.Errorf("health = %+v, want ok/%s", got, buildinfo.Version)
	}
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts, demoRequest())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decode[GenerateResponse](t, resp)

	if got.RunID == "" || got.RunID != resp.Header.Get(RunIDHeader) {
		t.Errorf("run id = %q, header %q", got.RunID, resp.Header.Get(RunIDHeader))
	}

	var names []string
	for name := range got.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	want := []string{"demo3x3.def", "demo3x3.json", "demo3x3.lef", "demo3x3.svg", "tile_LOGIC.svg", "tile_MEM.svg"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("artifacts = %v, want %v", names, want)
	}
	if !strings.HasPrefix(got.Artifacts["demo3x3.def"], "VERSION 5.8 ;") {
		t.Errorf("DEF does not start with the version statement")
	}

	s := got.Summary
	if s.Name != "demo3x3" || s.ArrayRows != 3 || s.ArrayCols != 3 {
		t.Errorf("summary = %+v, want demo3x3 3x3", s)
	}
	if s.Pins != 3 {
		t.Errorf("Pins = %d, want 3", s.Pins)
	}
	if s.Cells == 0 || s.EdgeCells == 0 {
		t.Errorf("cells = %d, edge cells = %d, want both > 0", s.Cells, s.EdgeCells)
	}
	if s.DieWidth <= s.CoreWidth || s.DieHeight <= s.CoreHeight {
		t.Errorf("die %.2fx%.2f not larger than core %.2fx%.2f", s.DieWidth, s.DieHeight, s.CoreWidth, s.CoreHeight)
	}
	if got.Cached {
		t.Error("Cached = true without a cache")
	}
}

func TestGenerateFabricSyntax(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name   string
		syntax string
		text   string
	}{
		{"toml", "toml", testutil.FabricTOML},
		{"hcl", "hcl", testutil.FabricHCL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := demoRequest()
			req.Fabric = quoted(t, tt.text)
			req.FabricSyntax = tt.syntax
			req.Formats = []string{pipeline.FormatDEF}
			req.Name = "chip"

			resp := post(t, ts, req)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			got := decode[GenerateResponse](t, resp)
			if len(got.Artifacts) != 1 || got.Artifacts["chip.def"] == "" {
				t.Errorf("artifacts = %d entries, want only chip.def", len(got.Artifacts))
			}
			if got.Summary.Name != "demo3x3" {
				t.Errorf("Summary.Name = %q, want demo3x3", got.Summary.Name)
			}
		})
	}
}

func TestGenerateDiagnostics(t *testing.T) {
	ts := newTestServer(t, Config{})

	req := demoRequest()
	req.Fabric = json.RawMessage(strings.Replace(testutil.FabricJSON,
		`"default_tile": "LOGIC"`, `"default_tile": "NOPE"`, 1))

	resp := post(t, ts, req)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	got := decode[ErrorResponse](t, resp)
	if got.Code != ferrors.ErrCodeValidation {
		t.Errorf("Code = %s, want %s", got.Code, ferrors.ErrCodeValidation)
	}
	found := false
	for _, d := range got.Diagnostics {
		if d.Code == ferrors.ErrCodeUnknownTileType {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics %v lack %s", got.Diagnostics, ferrors.ErrCodeUnknownTileType)
	}
}

func TestGenerateParseError(t *testing.T) {
	ts := newTestServer(t, Config{})

	req := demoRequest()
	req.Technology = quoted(t, "{")

	resp := post(t, ts, req)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	got := decode[ErrorResponse](t, resp)
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Code != ferrors.ErrCodeParse {
		t.Errorf("diagnostics = %v, want one %s", got.Diagnostics, ferrors.ErrCodeParse)
	}
}

func TestGenerateBadRequest(t *testing.T) {
	ts := newTestServer(t, Config{})

	noTiles := demoRequest()
	noTiles.Tiles = nil
	badFormat := demoRequest()
	badFormat.Formats = []string{"gds"}
	badName := demoRequest()
	badName.Name = "../chip"

	tests := []struct {
		name string
		body any
		want ferrors.Code
	}{
		{"malformed body", "not json", ferrors.ErrCodeInvalidInput},
		{"missing document", noTiles, ferrors.ErrCodeInvalidInput},
		{"unknown format", badFormat, ferrors.ErrCodeInvalidInput},
		{"bad name", badName, ferrors.ErrCodeInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			got := decode[ErrorResponse](t, resp)
			if got.Code != tt.want {
				t.Errorf("Code = %s, want %s", got.Code, tt.want)
			}
			if got.RunID == "" {
				t.Error("RunID is empty")
			}
		})
	}
}

func TestGenerateBodyLimit(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 64})

	resp := post(t, ts, demoRequest())
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestGenerateCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, Config{Cache: fc})

	first := decode[GenerateResponse](t, post(t, ts, demoRequest()))
	second := decode[GenerateResponse](t, post(t, ts, demoRequest()))

	if first.Cached {
		t.Error("first response Cached = true, want false")
	}
	if !second.Cached {
		t.Error("second response Cached = false, want true")
	}
	if first.RunID == second.RunID {
		t.Error("run ids repeat across requests")
	}
	if first.Artifacts["demo3x3.def"] != second.Artifacts["demo3x3.def"] {
		t.Error("cached DEF differs from the rendered one")
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	requests []string
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	post(t, ts, "{")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	wantReq := []string{"GET /healthz", "POST /v1/generate"}
	if strings.Join(hooks.requests, ",") != strings.Join(wantReq, ",") {
		t.Errorf("requests = %v, want %v", hooks.requests, wantReq)
	}
	if len(hooks.statuses) != 2 || hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
}

func TestRunIDUnique(t *testing.T) {
	ts := newTestServer(t, Config{})

	seen := make(map[string]bool)
	for range 3 {
		resp, err := http.Get(ts.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		id := resp.Header.Get(RunIDHeader)
		if seen[id] {
			t.Errorf("run id %q repeated", id)
		}
		seen[id] = true
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New(Config{Logger: log.New(&bytes.Buffer{})})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
