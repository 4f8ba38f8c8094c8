// internal/workers/procurement/query-procedures/handler.go
package queryprocedures

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"procurement-workers/internal/common/errors"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/common/metrics"
	"procurement-workers/internal/common/observability"
	"procurement-workers/internal/procurement"
)

const (
	TaskType = "query-procedures"
)

// Catalog runs the pipeline over the current snapshot.
type Catalog interface {
	Query(ctx context.Context, state procurement.QueryState) (*procurement.Result, error)
}

type Handler struct {
	config       *Config
	catalog      Catalog
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, catalog Catalog, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		catalog:      catalog,
		obs:          obs,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidQueryInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidQueryInputError("input cannot be nil")
	}
	if input.MaxResults < 0 {
		return nil, errors.NewInvalidQueryInputError("maxResults must not be negative")
	}

	state, err := h.buildState(input)
	if err != nil {
		return nil, err
	}

	res, err := h.catalog.Query(ctx, state)
	if err != nil {
		return nil, err
	}

	limit := input.MaxResults
	if limit == 0 {
		limit = h.config.MaxResults
	}

	procedures := res.Procedures
	total := len(procedures)
	truncated := false
	if limit > 0 && total > limit {
		procedures = procedures[:limit]
		truncated = true
	}

	views := make([]ProcedureView, len(procedures))
	for i, p := range procedures {
		views[i] = newProcedureView(p)
	}

	output := &Output{
		RunID:       uuid.NewString(),
		Procedures:  views,
		Total:       total,
		Returned:    len(views),
		Truncated:   truncated,
		AppliedSeed: res.AppliedSeed,
	}
	if res.AppliedColumn != procurement.ColumnNone {
		output.SortColumn = string(res.AppliedColumn)
		output.SortDirection = string(state.Direction)
	}

	h.logger.Info("query completed", map[string]interface{}{
		"runId":       output.RunID,
		"input":       res.Total,
		"afterSearch": res.AfterSearch,
		"afterSeed":   res.AfterSeed,
		"returned":    output.Returned,
	})

	return output, nil
}

func (h *Handler) buildState(input *Input) (procurement.QueryState, error) {
	state := procurement.QueryState{
		Search:   input.SearchText,
		SeedCode: procurement.NormalizeSeedCode(input.ActiveSeedCode),
	}

	direction := strings.ToLower(strings.TrimSpace(input.SortDirection))
	if direction != "" && direction != string(procurement.Ascending) && direction != string(procurement.Descending) {
		return state, errors.NewInvalidQueryInputError(fmt.Sprintf("unknown sortDirection %q", input.SortDirection))
	}

	if input.SortColumn == nil {
		state.Column = h.config.DefaultColumn
		state.Direction = h.config.DefaultDirection
		if direction != "" {
			state.Direction = procurement.ParseDirection(direction)
		}
		return state, nil
	}

	state.Column = procurement.ParseColumn(*input.SortColumn)
	state.Direction = procurement.ParseDirection(direction)
	return state, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
