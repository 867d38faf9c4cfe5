package benchmark

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artifactbench/repository"
)

func TestAccumulator_BatchSizes(t *testing.T) {
	tests := []struct {
		n, capacity int
		want        []int
	}{
		{n: 0, capacity: 100, want: nil},
		{n: 1, capacity: 100, want: []int{1}},
		{n: 100, capacity: 100, want: []int{100}},
		{n: 101, capacity: 100, want: []int{100, 1}},
		{n: 1000, capacity: 100, want: []int{100, 100, 100, 100, 100, 100, 100, 100, 100, 100}},
		{n: 10, capacity: 3, want: []int{3, 3, 3, 1}},
		{n: 5, capacity: 1, want: []int{1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d,cap=%d", tt.n, tt.capacity), func(t *testing.T) {
			var sizes []int
			acc, err := NewAccumulator(tt.capacity, func(_ context.Context, batch []int) error {
				sizes = append(sizes, len(batch))
				return nil
			})
			require.NoError(t, err)

			for i := 0; i < tt.n; i++ {
				require.NoError(t, acc.Add(context.Background(), i))
			}
			require.NoError(t, acc.Close(context.Background()))

			assert.Equal(t, tt.want, sizes)
			assert.Equal(t, len(tt.want), acc.Flushed())
			assert.Zero(t, acc.Pending())
		})
	}
}

func TestAccumulator_PreservesOrder(t *testing.T) {
	var got []int
	acc, err := NewAccumulator(3, func(_ context.Context, batch []int) error {
		got = append(got, batch...)
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		require.NoError(t, acc.Add(context.Background(), i))
	}
	assert.Equal(t, 1, acc.Pending())
	require.NoError(t, acc.Close(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, got)
}

func TestAccumulator_BatchesAreIndependent(t *testing.T) {
	var batches [][]int
	acc, err := NewAccumulator(2, func(_ context.Context, batch []int) error {
		batches = append(batches, batch)
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, acc.Add(context.Background(), i))
	}
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, batches)
}

func TestAccumulator_InvalidCapacity(t *testing.T) {
	_, err := NewAccumulator(0, func(context.Context, []int) error { return nil })
	assert.Error(t, err)
}

func TestAccumulator_FlushError(t *testing.T) {
	boom := errors.New("boom")
	acc, err := NewAccumulator(2, func(context.Context, []int) error { return boom })
	require.NoError(t, err)

	require.NoError(t, acc.Add(context.Background(), 1))
	assert.ErrorIs(t, acc.Add(context.Background(), 2), boom)
	assert.Zero(t, acc.Flushed())
}

func TestBatchUploader_TenBatchesOfHundred(t *testing.T) {
	svc := newFakeService()
	rec := &recorder{}
	params := DefaultParams()

	u := NewBatchUploader(svc, newTestTimer(rec, time.Millisecond), params, []byte("<schema/>"), noProgress())
	require.NoError(t, u.Run(context.Background()))

	batches := svc.ops("batch")
	require.Len(t, batches, 10)
	for _, b := range batches {
		assert.Len(t, b.Entries, 100)
	}
	assert.Equal(t, "PO0", batches[0].Entries[0].Name)
	assert.Equal(t, "PO999", batches[9].Entries[99].Name)
	assert.Equal(t, repository.XsdDocument, batches[0].Entries[0].Metadata.Type)

	require.Len(t, rec.records, 1)
	assert.Equal(t, BatchUploadsLabel, rec.records[0].Label)
	assert.Equal(t, 1000, rec.records[0].Items)
}

func TestBatchUploader_TrailingPartialBatch(t *testing.T) {
	svc := newFakeService()
	rec := &recorder{}

	u := NewBatchUploader(svc, newTestTimer(rec, time.Millisecond), testParams(), nil, noProgress())
	require.NoError(t, u.Run(context.Background()))

	batches := svc.ops("batch")
	require.Len(t, batches, 3)
	assert.Len(t, batches[0].Entries, 4)
	assert.Len(t, batches[1].Entries, 4)
	assert.Len(t, batches[2].Entries, 2)
	assert.Equal(t, "PO9", batches[2].Entries[1].Name)
}

func TestBatchUploader_ZeroItems(t *testing.T) {
	svc := newFakeService()
	rec := &recorder{}
	params := testParams()
	params.ItemCount = 0

	u := NewBatchUploader(svc, newTestTimer(rec, time.Millisecond), params, nil, noProgress())
	require.NoError(t, u.Run(context.Background()))

	assert.Empty(t, svc.calls)
	assert.Len(t, rec.records, 1)
}

func TestBatchUploader_FailureAbortsPhase(t *testing.T) {
	svc := newFakeService()
	svc.errs["batch"] = repository.ErrCall
	rec := &recorder{}

	u := NewBatchUploader(svc, newTestTimer(rec, time.Millisecond), testParams(), nil, noProgress())
	err := u.Run(context.Background())

	assert.ErrorIs(t, err, repository.ErrCall)
	assert.Len(t, svc.ops("batch"), 1)
	assert.Empty(t, rec.records)
}

func TestBatchUploader_Progress(t *testing.T) {
	svc := newFakeService()
	n := &countingNotifier{}

	u := NewBatchUploader(svc, newTestTimer(&recorder{}, time.Millisecond), testParams(), nil, n.factory())
	require.NoError(t, u.Run(context.Background()))

	assert.Equal(t, 10, n.steps)
	assert.Equal(t, 1, n.finished)
}
