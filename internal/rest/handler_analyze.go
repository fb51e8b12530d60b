package rest

import (
	"bytes"
	"io"
	"net/http"

	"github.com/sourceplane/actionforge/internal/analyze"
	"github.com/sourceplane/actionforge/internal/loader"
	"github.com/sourceplane/actionforge/internal/logger"
	"github.com/sourceplane/actionforge/internal/render"
	"go.uber.org/zap"
)

// HandleAnalyze accepts an uploaded workflow file as the raw request body
// and returns the dependency analysis. `?format=dot` returns the graph as
// Graphviz DOT text instead of the JSON report.
func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	wf, warnings, err := loader.DecodeWorkflow(bytes.NewReader(body), "uploaded workflow")
	if err != nil {
		logger.Info("rejected workflow upload", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	report := analyze.NewAnalyzer(wf).Analyze()
	report.Warnings = append(warnings, report.Warnings...)

	if r.URL.Query().Get("format") == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, render.RenderDOT(wf, report))
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
