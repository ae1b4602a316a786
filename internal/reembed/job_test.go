package reembed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnvoucher/discovery/app/models"
	"github.com/vnvoucher/discovery/internal/index"
	"github.com/vnvoucher/discovery/internal/location"
	"github.com/vnvoucher/discovery/internal/store"
	"go.uber.org/zap"
)

func testRegistry() *location.Registry {
	return location.New(location.DefaultEntries())
}

type fakeIndex struct {
	upserted int
}

func newFakeIndex() *fakeIndex { return &fakeIndex{} }

func (f *fakeIndex) Query(ctx context.Context, req index.QueryRequest) ([]index.Hit, error) {
	return nil, nil
}
func (f *fakeIndex) Upsert(ctx context.Context, doc index.Document) error {
	f.upserted++
	return nil
}
func (f *fakeIndex) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeIndex) EnsureSchema(ctx context.Context) error      { return nil }

type fakeEmbedder struct {
	failFor string
}

func (f *fakeEmbedder) Dimension() int { return 4 }
func (f *fakeEmbedder) Encode(ctx context.Context, text string) ([]float32, error) {
	if f.failFor != "" && text == f.failFor {
		return nil, errors.New("encode failed")
	}
	v := make([]float32, 4)
	v[len(text)%4] = 1
	return v, nil
}

func waitForStatus(t *testing.T, j *Job, jobID string, want string) JobStatus {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s, ok := j.Status(jobID); ok && s.Status == want {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return JobStatus{}
}

func TestJob_Start_CompletesAndReportsProgress(t *testing.T) {
	idx := newFakeIndex()
	s := store.New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())
	j := New(s, zap.NewNop())

	vouchers := []models.Voucher{
		{ID: "v-1", Name: "A", Content: "mô tả a"},
		{ID: "v-2", Name: "B", Content: "mô tả b"},
	}

	j.Start("job-1", vouchers)
	status := waitForStatus(t, j, "job-1", StatusDone)

	assert.Equal(t, 2, status.Processed)
	assert.Equal(t, 0, status.Failed)
	assert.Equal(t, 1.0, status.Progress)
	assert.Equal(t, 2, idx.upserted)
}

func TestJob_Start_MarksFailedWhenAVoucherCannotBeEmbedded(t *testing.T) {
	idx := newFakeIndex()
	s := store.New(idx, &fakeEmbedder{failFor: "mô tả b"}, testRegistry(), zap.NewNop())
	j := New(s, zap.NewNop())

	vouchers := []models.Voucher{
		{ID: "v-1", Name: "A", Content: "mô tả a"},
		{ID: "v-2", Name: "B", Content: "mô tả b"},
	}

	j.Start("job-2", vouchers)
	status := waitForStatus(t, j, "job-2", StatusFailed)

	assert.Equal(t, 2, status.Processed)
	assert.Equal(t, 1, status.Failed)
}

func TestJob_Status_UnknownJobReturnsFalse(t *testing.T) {
	idx := newFakeIndex()
	s := store.New(idx, &fakeEmbedder{}, testRegistry(), zap.NewNop())
	j := New(s, zap.NewNop())

	_, ok := j.Status("does-not-exist")
	require.False(t, ok)
}
