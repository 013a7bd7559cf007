package tracker

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/domain"
	"github.com/applyforge/applyforge/internal/resilience"
)

func sampleRecord() domain.ApplicationRecord {
	return domain.ApplicationRecord{
		Company:     "Initech",
		Title:       "Data Analyst",
		Level:       "Entry Level",
		SalaryRange: "$70,000 - $85,000",
		Link:        "https://example.com/jobs/123",
		Status:      domain.StatusApplied,
	}
}

func TestCSV_Track(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.csv")
	tracker := NewCSV(path, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, tracker.Track(ctx, sampleRecord()))

	second := sampleRecord()
	second.Company = "Globex"
	second.Status = domain.StatusSkipped
	require.NoError(t, tracker.Track(ctx, second))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Header written exactly once, on create.
	assert.Equal(t, []string{"Company Name", "Job Title", "Job Level", "Salary Range", "Application Link", "Status"}, rows[0])
	assert.Equal(t, []string{"Initech", "Data Analyst", "Entry Level", "$70,000 - $85,000", "https://example.com/jobs/123", "Applied"}, rows[1])
	assert.Equal(t, "Globex", rows[2][0])
	assert.Equal(t, "Skipped", rows[2][5])
}

func TestWebhook_Track(t *testing.T) {
	var received webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tracker := NewWebhook(config.TrackerConfig{
		WebhookURL:     srv.URL,
		WebhookTimeout: 5 * time.Second,
	}, zap.NewNop())

	require.NoError(t, tracker.Track(context.Background(), sampleRecord()))

	assert.Equal(t, "application_recorded", received.Event)
	assert.Equal(t, "Initech", received.CompanyName)
	assert.Equal(t, "Data Analyst", received.JobTitle)
	assert.Equal(t, "Applied", received.Status)
	assert.NotEmpty(t, received.Timestamp)
}

func TestWebhook_TrackServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tracker := NewWebhook(config.TrackerConfig{WebhookURL: srv.URL}, zap.NewNop())

	err := tracker.Track(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

type stubTracker struct {
	records []domain.ApplicationRecord
	calls   int
	err     error
}

func (s *stubTracker) Track(ctx context.Context, record domain.ApplicationRecord) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func TestFallback_Track(t *testing.T) {
	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubTracker{}
		secondary := &stubTracker{}
		fb := NewFallback(primary, secondary, zap.NewNop())

		require.NoError(t, fb.Track(context.Background(), sampleRecord()))
		assert.Len(t, primary.records, 1)
		assert.Empty(t, secondary.records)
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &stubTracker{err: errors.New("connection refused")}
		secondary := &stubTracker{}
		fb := NewFallback(primary, secondary, zap.NewNop())

		require.NoError(t, fb.Track(context.Background(), sampleRecord()))
		assert.Len(t, secondary.records, 1)
	})

	t.Run("both fail", func(t *testing.T) {
		primary := &stubTracker{err: errors.New("connection refused")}
		secondary := &stubTracker{err: errors.New("disk full")}
		fb := NewFallback(primary, secondary, zap.NewNop())

		err := fb.Track(context.Background(), sampleRecord())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestGuarded_Track(t *testing.T) {
	t.Run("passes through while healthy", func(t *testing.T) {
		sink := &stubTracker{}
		guarded := NewGuarded(sink, resilience.NewBreaker("test", 3, time.Minute, zap.NewNop()))

		require.NoError(t, guarded.Track(context.Background(), sampleRecord()))
		assert.Len(t, sink.records, 1)
	})

	t.Run("stops calling a failing sink", func(t *testing.T) {
		sink := &stubTracker{err: errors.New("gateway timeout")}
		guarded := NewGuarded(sink, resilience.NewBreaker("test", 3, time.Minute, zap.NewNop()))

		for i := 0; i < 5; i++ {
			require.Error(t, guarded.Track(context.Background(), sampleRecord()))
		}

		// Three real attempts trip the breaker; the rest fail fast.
		assert.Equal(t, 3, sink.calls)
	})
}

func TestNew(t *testing.T) {
	t.Run("csv only without webhook url", func(t *testing.T) {
		tr := New(config.TrackerConfig{CSVPath: "x.csv"}, zap.NewNop())
		_, ok := tr.(*CSV)
		assert.True(t, ok)
	})

	t.Run("fallback chain with webhook url", func(t *testing.T) {
		tr := New(config.TrackerConfig{WebhookURL: "https://hooks.example.com/x", CSVPath: "x.csv"}, zap.NewNop())
		_, ok := tr.(*Fallback)
		assert.True(t, ok)
	})
}
