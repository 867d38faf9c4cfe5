package benchmark

import (
	"context"
	"fmt"

	"artifactbench/progress"
	"artifactbench/query"
	"artifactbench/repository"
)

// Labels of the query chain steps, in execution order.
const (
	FindAllLabel      = "Find all"
	FindRelationLabel = "Find all through relationship"
	QueryByUUIDLabel  = "Query by UUID"
	GetMetadataLabel  = "Get metadata by UUID"
)

// ChainedQueryRunner runs four dependent, individually timed lookups:
//
//  1. the find-all query, whose first result becomes the anchor
//  2. the relationship query
//  3. the find-all query filtered by the anchor's UUID
//  4. a metadata fetch of the anchor
//
// The anchor is the first element of the repository's result order; the
// repository is expected to return the same order for the same query.
type ChainedQueryRunner struct {
	svc      repository.Service
	timer    *Timer
	params   BenchmarkParams
	progress progress.Factory
}

// NewChainedQueryRunner returns a query runner using the given session.
func NewChainedQueryRunner(svc repository.Service, timer *Timer, params BenchmarkParams, pf progress.Factory) *ChainedQueryRunner {
	return &ChainedQueryRunner{svc: svc, timer: timer, params: params, progress: pf}
}

// Run executes the chain and returns the anchor. If the find-all query
// returns nothing, Run fails with repository.ErrEmptyResult before any other
// step runs.
func (q *ChainedQueryRunner) Run(ctx context.Context) (repository.Summary, error) {
	var anchor repository.Summary

	err := q.step(FindAllLabel, func() error {
		results, err := q.svc.Query(ctx, q.params.FindAllQuery)
		if err != nil {
			return fmt.Errorf("find all: %w", err)
		}
		if len(results) == 0 {
			return fmt.Errorf("find all %s: %w", q.params.FindAllQuery, repository.ErrEmptyResult)
		}
		anchor = results[0]
		return nil
	})
	if err != nil {
		return repository.Summary{}, err
	}

	err = q.step(FindRelationLabel, func() error {
		if _, err := q.svc.Query(ctx, q.params.RelationshipQuery); err != nil {
			return fmt.Errorf("find through relationship: %w", err)
		}
		return nil
	})
	if err != nil {
		return anchor, err
	}

	byUUID := query.Parse(q.params.FindAllQuery).Where(query.Eq("uuid", anchor.UUID)).String()
	err = q.step(QueryByUUIDLabel, func() error {
		if _, err := q.svc.Query(ctx, byUUID); err != nil {
			return fmt.Errorf("query by uuid: %w", err)
		}
		return nil
	})
	if err != nil {
		return anchor, err
	}

	err = q.step(GetMetadataLabel, func() error {
		if _, err := q.svc.GetMetadata(ctx, anchor.ArtifactType, anchor.UUID); err != nil {
			return fmt.Errorf("get metadata %s: %w", anchor.UUID, err)
		}
		return nil
	})
	return anchor, err
}

// step times Repeat executions of fn as one measurement.
func (q *ChainedQueryRunner) step(label string, fn func() error) error {
	return q.timer.MeasureItems(label, q.params.Repeat, func() error {
		var pb progress.Notifier
		if q.params.Repeat > 1 {
			pb = q.progress(int64(q.params.Repeat), label)
			defer pb.Finish()
		}
		return repeat(q.params.Repeat, pb, fn)
	})
}
