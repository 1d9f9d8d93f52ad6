package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pimprep/adapters/report"
	"pimprep/domain/core"
	"pimprep/domain/dataset"
	"pimprep/internal/classifier"
)

// analyzeRequest is the payload of the analyze/validate/report routes.
// Cells may be strings, numbers or null; they are stringified at this
// boundary so the engine sees a uniform snapshot.
type analyzeRequest struct {
	Name             string            `json:"name,omitempty"`
	Headers          []string          `json:"headers"`
	Rows             []json.RawMessage `json:"rows"`
	Thresholds       *thresholdsBody   `json:"thresholds,omitempty"`
	UomKeywords      []string          `json:"uom_keywords,omitempty"`
	HierarchyHeaders []string          `json:"hierarchy_headers,omitempty"`
}

type thresholdsBody struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) decodeRequest(w http.ResponseWriter, r *http.Request) (*analyzeRequest, *dataset.Dataset, classifier.Thresholds, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return nil, nil, classifier.Thresholds{}, false
	}
	if len(req.Headers) == 0 {
		a.writeError(w, http.StatusBadRequest, "headers must not be empty")
		return nil, nil, classifier.Thresholds{}, false
	}

	rows, err := decodeRows(req.Rows)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, classifier.Thresholds{}, false
	}

	t := classifier.Thresholds{Low: a.cfg.Thresholds.Low, Medium: a.cfg.Thresholds.Medium}
	if req.Thresholds != nil {
		t = classifier.Thresholds{Low: req.Thresholds.Low, Medium: req.Thresholds.Medium}
	}
	if err := t.Validate(); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, classifier.Thresholds{}, false
	}

	ds := &dataset.Dataset{Name: req.Name, Headers: req.Headers, Rows: rows}
	return &req, ds, t, true
}

// decodeRows stringifies mixed-type JSON rows. Numbers keep their
// literal form (json.Number), null and absent cells become empty.
func decodeRows(raw []json.RawMessage) ([][]string, error) {
	rows := make([][]string, len(raw))
	for i, rowJSON := range raw {
		var cells []interface{}
		dec := json.NewDecoder(bytes.NewReader(rowJSON))
		dec.UseNumber()
		if err := dec.Decode(&cells); err != nil {
			return nil, fmt.Errorf("row %d is not a JSON array: %w", i, err)
		}
		row := make([]string, len(cells))
		for j, c := range cells {
			switch v := c.(type) {
			case nil:
				row[j] = ""
			case string:
				row[j] = v
			case json.Number:
				row[j] = v.String()
			case bool:
				row[j] = strconv.FormatBool(v)
			default:
				return nil, fmt.Errorf("row %d column %d: unsupported cell type", i, j)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ds, t, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}

	svc := a.newService(t, req.UomKeywords)
	rec, err := svc.Run(r.Context(), ds)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

func (a *App) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ds, t, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}

	svc := a.newService(t, req.UomKeywords)
	res := svc.Validate(ds, req.HierarchyHeaders)
	a.writeJSON(w, http.StatusOK, res)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	req, ds, t, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}

	svc := a.newService(t, req.UomKeywords)
	rec, err := svc.Run(r.Context(), ds)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "html" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(report.HTML(rec))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(report.Markdown(rec)))
}

func (a *App) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseAnalysisID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := a.repo.GetByID(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			a.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

func (a *App) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	records, err := a.repo.List(r.Context(), limit, offset)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, records)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, msg string) {
	a.logger.Warn("request failed (%d): %s", status, msg)
	a.writeJSON(w, status, errorResponse{Error: msg})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
