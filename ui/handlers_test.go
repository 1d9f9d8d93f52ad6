package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pimprep/domain/core"
	"pimprep/internal/config"
	"pimprep/ports"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Port: "0"},
		Thresholds: config.ThresholdConfig{Low: 0.3, Medium: 0.7},
	}
}

// memoryRepository keeps records in a map, enough to exercise the
// persistence-backed routes without a database.
type memoryRepository struct {
	records map[core.AnalysisID]*ports.AnalysisRecord
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: make(map[core.AnalysisID]*ports.AnalysisRecord)}
}

func (m *memoryRepository) Create(_ context.Context, rec *ports.AnalysisRecord) error {
	m.records[rec.ID] = rec
	return nil
}

func (m *memoryRepository) GetByID(_ context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, core.NewNotFoundError("analysis", id.String())
	}
	return rec, nil
}

func (m *memoryRepository) List(_ context.Context, _, _ int) ([]*ports.AnalysisRecord, error) {
	out := make([]*ports.AnalysisRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func analyzeBody() []byte {
	body := map[string]interface{}{
		"name":    "catalog",
		"headers": []string{"Category", "SKU", "Net Weight"},
		"rows": [][]interface{}{
			{"Beverages", "SKU-1", "330ml"},
			{"Beverages", "SKU-2", "500ml"},
			{"Snacks", "SKU-3", 45},
			{"Snacks", "SKU-4", nil},
		},
	}
	b, _ := json.Marshal(body)
	return b
}

func doRequest(t *testing.T, app *App, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.Router().ServeHTTP(rr, req)
	return rr
}

func TestAnalyzeEndpoint(t *testing.T) {
	app := NewApp(testConfig(), nil)

	rr := doRequest(t, app, http.MethodPost, "/api/analyze", analyzeBody())
	require.Equal(t, http.StatusOK, rr.Code)

	var rec ports.AnalysisRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "catalog", rec.DatasetName)
	assert.Equal(t, 4, rec.RowCount)
	assert.Equal(t, 3, rec.ColumnCount)
	assert.NotEmpty(t, rec.Analysis.Hierarchy)
	assert.Equal(t, "SKU", rec.Analysis.RecordIDSuggestion)
}

func TestAnalyzeStringifiesMixedCells(t *testing.T) {
	app := NewApp(testConfig(), nil)

	rr := doRequest(t, app, http.MethodPost, "/api/analyze", analyzeBody())
	require.Equal(t, http.StatusOK, rr.Code)

	var rec ports.AnalysisRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	// Numeric 45 and null both entered the pipeline as strings; row
	// count is unchanged by cell types.
	assert.Equal(t, 4, rec.RowCount)
}

func TestAnalyzeRejectsBadThresholds(t *testing.T) {
	app := NewApp(testConfig(), nil)

	body := map[string]interface{}{
		"headers":    []string{"A"},
		"rows":       [][]interface{}{{"x"}},
		"thresholds": map[string]float64{"low": 0.8, "medium": 0.2},
	}
	b, _ := json.Marshal(body)

	rr := doRequest(t, app, http.MethodPost, "/api/analyze", b)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyzeRejectsEmptyHeaders(t *testing.T) {
	app := NewApp(testConfig(), nil)

	rr := doRequest(t, app, http.MethodPost, "/api/analyze", []byte(`{"headers":[],"rows":[]}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyzeRejectsMalformedRow(t *testing.T) {
	app := NewApp(testConfig(), nil)

	rr := doRequest(t, app, http.MethodPost, "/api/analyze", []byte(`{"headers":["A"],"rows":["not-an-array"]}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestValidateEndpoint(t *testing.T) {
	app := NewApp(testConfig(), nil)

	body := map[string]interface{}{
		"headers": []string{"SKU", "Name"},
		"rows": [][]interface{}{
			{"A", "One"},
			{"A", "Two"},
			{"B", "Three"},
		},
	}
	b, _ := json.Marshal(body)

	rr := doRequest(t, app, http.MethodPost, "/api/validate", b)
	require.Equal(t, http.StatusOK, rr.Code)

	var res struct {
		Warnings []struct {
			Type     string `json:"type"`
			Severity string `json:"severity"`
		} `json:"warnings"`
		TotalIssues int `json:"total_issues"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "duplicate", res.Warnings[0].Type)
	assert.Equal(t, "high", res.Warnings[0].Severity)
}

func TestReportEndpoint(t *testing.T) {
	app := NewApp(testConfig(), nil)

	rr := doRequest(t, app, http.MethodPost, "/api/report", analyzeBody())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "markdown")
	assert.Contains(t, rr.Body.String(), "# Import analysis: catalog")

	rr = doRequest(t, app, http.MethodPost, "/api/report?format=html", analyzeBody())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "<h1")
}

func TestAnalysesRoutesWithRepository(t *testing.T) {
	repo := newMemoryRepository()
	app := NewApp(testConfig(), repo)

	rr := doRequest(t, app, http.MethodPost, "/api/analyze", analyzeBody())
	require.Equal(t, http.StatusOK, rr.Code)

	var rec ports.AnalysisRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	require.NotEmpty(t, rec.ID)

	rr = doRequest(t, app, http.MethodGet, "/api/analyses/"+rec.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched ports.AnalysisRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, rec.ID, fetched.ID)

	rr = doRequest(t, app, http.MethodGet, "/api/analyses", nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestGetAnalysisNotFound(t *testing.T) {
	app := NewApp(testConfig(), newMemoryRepository())

	rr := doRequest(t, app, http.MethodGet, "/api/analyses/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAnalysesRoutesAbsentWithoutRepository(t *testing.T) {
	app := NewApp(testConfig(), nil)

	rr := doRequest(t, app, http.MethodGet, "/api/analyses", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthEndpoint(t *testing.T) {
	app := NewApp(testConfig(), nil)

	rr := doRequest(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
