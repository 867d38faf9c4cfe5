package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artifactbench/repository"
)

func TestSearchRunner_SingleQuery(t *testing.T) {
	svc := newFakeService()
	rec := &recorder{}

	s := NewSearchRunner(svc, newTestTimer(rec, 7*time.Millisecond), testParams(), noProgress())
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, svc.calls, 1)
	assert.Equal(t, "/s-ramp[xp2:matches(., 'Purchase order schema')]", svc.calls[0].Query)
	require.Len(t, rec.records, 1)
	assert.Equal(t, SearchLabel, rec.records[0].Label)
	assert.Equal(t, int64(7), rec.records[0].DurationMillis)
}

func TestSearchRunner_EmptyResultIsFine(t *testing.T) {
	svc := newFakeService()
	svc.results[SearchQuery("Purchase order schema")] = nil

	s := NewSearchRunner(svc, newTestTimer(&recorder{}, time.Millisecond), testParams(), noProgress())
	assert.NoError(t, s.Run(context.Background()))
}

func TestSearchRunner_Failure(t *testing.T) {
	svc := newFakeService()
	svc.errs["query"] = &repository.CallError{Op: "query", Status: 503}
	rec := &recorder{}

	s := NewSearchRunner(svc, newTestTimer(rec, time.Millisecond), testParams(), noProgress())
	assert.ErrorIs(t, s.Run(context.Background()), repository.ErrCall)
	assert.Empty(t, rec.records)
}

func TestSearchRunner_Repeat(t *testing.T) {
	svc := newFakeService()
	rec := &recorder{}
	params := testParams()
	params.Repeat = 1000

	s := NewSearchRunner(svc, newTestTimer(rec, time.Millisecond), params, noProgress())
	require.NoError(t, s.Run(context.Background()))

	assert.Len(t, svc.calls, 1000)
	assert.Len(t, rec.records, 1)
}

func TestSearchQuery_EscapesPhrase(t *testing.T) {
	assert.Equal(t, "/s-ramp[xp2:matches(., 'order''s schema')]", SearchQuery("order's schema"))
}
