package benchmark

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"artifactbench/progress"
	"artifactbench/repository"
)

// Reporter is where the harness writes phase headings and timing records.
type Reporter interface {
	Recorder
	Heading(text string)
}

// Harness runs the selected phases in order against one repository session.
type Harness struct {
	params   BenchmarkParams
	reporter Reporter
	logger   *zap.Logger

	uploader *SequentialUploader
	batcher  *BatchUploader
	queries  *ChainedQueryRunner
	search   *SearchRunner
}

// NewHarness wires every phase to svc. svc is used read-only and must
// already be authenticated.
func NewHarness(svc repository.Service, params BenchmarkParams, payload []byte, reporter Reporter, pf progress.Factory, logger *zap.Logger) (*Harness, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timer := NewTimer(reporter, logger)
	return &Harness{
		params:   params,
		reporter: reporter,
		logger:   logger,
		uploader: NewSequentialUploader(svc, timer, params, payload, pf),
		batcher:  NewBatchUploader(svc, timer, params, payload, pf),
		queries:  NewChainedQueryRunner(svc, timer, params, pf),
		search:   NewSearchRunner(svc, timer, params, pf),
	}, nil
}

// Run executes the phases one after another and stops at the first failure.
func (h *Harness) Run(ctx context.Context) error {
	for _, phase := range h.params.Phases {
		h.logger.Info("phase start", zap.String("phase", string(phase)))

		var err error
		switch phase {
		case PhaseUpload:
			h.reporter.Heading(fmt.Sprintf("Performing upload benchmark (%d items)...", h.params.ItemCount))
			err = h.uploader.Run(ctx)
		case PhaseBatch:
			h.reporter.Heading(fmt.Sprintf("Performing batch upload benchmark (%d items, batches of %d)...", h.params.ItemCount, h.params.BatchSize))
			err = h.batcher.Run(ctx)
		case PhaseQuery:
			h.reporter.Heading("Performing query benchmark...")
			var anchor repository.Summary
			anchor, err = h.queries.Run(ctx)
			if err == nil {
				h.logger.Info("query anchor", zap.String("uuid", anchor.UUID), zap.String("type", anchor.ArtifactType.String()))
			}
		case PhaseSearch:
			h.reporter.Heading("Performing full text search benchmark...")
			err = h.search.Run(ctx)
		default:
			err = fmt.Errorf("unknown phase %q", phase)
		}
		if err != nil {
			return fmt.Errorf("%s phase: %w", phase, err)
		}

		h.logger.Info("phase done", zap.String("phase", string(phase)))
	}
	return nil
}
