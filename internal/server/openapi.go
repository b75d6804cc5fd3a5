package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/solentmarks/markquiz/internal/markquiz"
)

// Path parameter documents. The reflector rejects an operation whose
// path placeholders have no matching path field.

type ChartPath struct {
	Chart string `path:"chart" description:"Chart slug"`
}

type DifficultyPath struct {
	Difficulty markquiz.Difficulty `path:"difficulty" enum:"beginner,intermediate,advanced"`
}

type HintPath struct {
	ChartPath
	MarkID string `path:"markID"`
	Level  int    `path:"level" minimum:"0"`
}

type QuestionOperation struct {
	ChartPath
	QuestionRequest
}

type GuessOperation struct {
	ChartPath
	GuessRequest
}

type AdminMarksOperation struct {
	ChartPath
	AdminMarksRequest
}

type apiDoc struct {
	r    *openapi3.Reflector
	errs []error
}

func (d *apiDoc) add(method, path string, setup func(oc openapi.OperationContext)) {
	oc, err := d.r.NewOperationContext(method, path)
	if err != nil {
		d.errs = append(d.errs, err)
		return
	}
	setup(oc)
	if err := d.r.AddOperation(oc); err != nil {
		d.errs = append(d.errs, fmt.Errorf("%s %s: %w", method, path, err))
	}
}

func newOpenAPISpec() (*openapi3.Spec, error) {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Markquiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Question, scoring and hint API for the racing mark quiz. The server keeps no game state.")

	d := &apiDoc{r: r}

	d.add(http.MethodGet, "/healthz", func(oc openapi.OperationContext) {
		oc.SetSummary("Health check")
		oc.SetDescription("Pings every opened chart database and checks the default chart has marks.")
		oc.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	})

	d.add(http.MethodGet, "/api/time-limits/{difficulty}", func(oc openapi.OperationContext) {
		oc.SetSummary("Default time limit")
		oc.SetDescription("Answer window in seconds for a difficulty tier.")
		oc.AddReqStructure(DifficultyPath{})
		oc.AddRespStructure(TimeLimitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	})

	d.add(http.MethodPost, "/api/stats", func(oc openapi.OperationContext) {
		oc.SetSummary("End-of-game statistics")
		oc.SetDescription("Accuracy, average answer time, points per minute and grade for a finished game.")
		oc.AddReqStructure(StatsRequest{})
		oc.AddRespStructure(markquiz.Stats{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	})

	d.add(http.MethodGet, "/api/charts/{chart}/marks", func(oc openapi.OperationContext) {
		oc.SetSummary("List marks")
		oc.SetDescription("Every mark on the chart, in catalog order.")
		oc.AddReqStructure(ChartPath{})
		oc.AddRespStructure(MarksResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	})

	d.add(http.MethodGet, "/api/charts/{chart}/marks/{markID}/hints/{level}", func(oc openapi.OperationContext) {
		oc.SetSummary("Get hint")
		oc.SetDescription("Hint text for a mark. Levels run from 0 (vague) to 4; higher levels are clamped.")
		oc.AddReqStructure(HintPath{})
		oc.AddRespStructure(HintResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	})

	d.add(http.MethodPost, "/api/charts/{chart}/questions", func(oc openapi.OperationContext) {
		oc.SetSummary("Generate question")
		oc.SetDescription("Picks a target for the difficulty and builds the multiple-choice options around it.")
		oc.AddReqStructure(QuestionOperation{})
		oc.AddRespStructure(QuestionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	})

	d.add(http.MethodPost, "/api/charts/{chart}/guesses", func(oc openapi.OperationContext) {
		oc.SetSummary("Score a guess")
		oc.SetDescription("Scores one answer. Omit selectedId for a timeout. The client sends its current streak and gets the new one back.")
		oc.AddReqStructure(GuessOperation{})
		oc.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	})

	d.add(http.MethodPut, "/api/admin/charts/{chart}/marks", func(oc openapi.OperationContext) {
		oc.SetSummary("Replace chart marks")
		oc.SetDescription("Replaces a chart's catalog from a GPX (application/gpx+xml) or JSON body. Requires HTTP basic auth.")
		oc.AddReqStructure(AdminMarksOperation{})
		oc.AddRespStructure(AdminMarksResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	})

	return r.Spec, errors.Join(d.errs...)
}

// handleOpenAPI builds the document once and panics if any operation is
// rejected.
func handleOpenAPI() http.HandlerFunc {
	spec, err := newOpenAPISpec()
	if err != nil {
		panic(fmt.Sprintf("building openapi document: %v", err))
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("encoding openapi document: %v", err))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
