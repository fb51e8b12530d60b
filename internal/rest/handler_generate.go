package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sourceplane/actionforge/internal/analyze"
	"github.com/sourceplane/actionforge/internal/logger"
	"github.com/sourceplane/actionforge/internal/model"
	"github.com/sourceplane/actionforge/internal/normalize"
	"github.com/sourceplane/actionforge/internal/render"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// GenerateResponse is the payload returned to the form: the workflow file
// text ready to copy or download, plus the analysis of what was generated.
type GenerateResponse struct {
	Workflow string        `json:"workflow"`
	Report   *model.Report `json:"report"`
}

func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		respondWithError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if err := s.validator.ValidateConfig(raw); err != nil {
		logger.Info("config failed validation", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var cfg model.WorkflowConfig
	if err := json.Unmarshal(body, &cfg); err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to decode config")
		return
	}

	normalized, err := normalize.NormalizeConfig(&cfg)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	wf, err := s.generator.Generate(normalized)
	if err != nil {
		logger.Error("error generating workflow", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error generating workflow")
		return
	}

	data, err := render.EncodeWorkflow(wf)
	if err != nil {
		logger.Error("error encoding workflow", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error encoding workflow")
		return
	}

	report := analyze.NewAnalyzer(wf).Analyze()
	respondWithJSON(w, http.StatusOK, GenerateResponse{
		Workflow: string(data),
		Report:   report,
	})
}

func projectTypeList() []string {
	types := model.ProjectTypes()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
