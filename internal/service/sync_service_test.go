package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vnstock-service/config"
	"vnstock-service/internal/dto"
	"vnstock-service/internal/model"
	"vnstock-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSourceRepo scripts per-ticker fetch behavior.
type stubSourceRepo struct {
	mu    sync.Mutex
	calls map[string]int
	fetch func(ticker string, attempt int) (*dto.RawCompanySummary, error)
}

func newStubSourceRepo(fetch func(ticker string, attempt int) (*dto.RawCompanySummary, error)) *stubSourceRepo {
	return &stubSourceRepo{calls: make(map[string]int), fetch: fetch}
}

func (s *stubSourceRepo) FetchSummary(_ context.Context, ticker string) (*dto.RawCompanySummary, error) {
	s.mu.Lock()
	s.calls[ticker]++
	attempt := s.calls[ticker]
	s.mu.Unlock()
	return s.fetch(ticker, attempt)
}

func (s *stubSourceRepo) attempts(ticker string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[ticker]
}

// stubCompanyRepo records upserts and scripts existence checks.
type stubCompanyRepo struct {
	mu        sync.Mutex
	upserts   map[string]*model.Company
	existing  map[string]bool
	upsertErr error
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{
		upserts:  make(map[string]*model.Company),
		existing: make(map[string]bool),
	}
}

func (s *stubCompanyRepo) EnsureSchema(context.Context) error { return nil }

func (s *stubCompanyRepo) Upsert(_ context.Context, company *model.Company) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts[company.Ticker] = company
	return nil
}

func (s *stubCompanyRepo) Exists(_ context.Context, ticker string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing[ticker], nil
}

func (s *stubCompanyRepo) GetByTicker(context.Context, string) (*model.Company, error) {
	return nil, nil
}

func (s *stubCompanyRepo) GetByTickers(context.Context, []string) ([]model.Company, error) {
	return nil, nil
}

func (s *stubCompanyRepo) List(context.Context, dto.ListCompaniesParam) ([]model.Company, int64, error) {
	return nil, 0, nil
}

func (s *stubCompanyRepo) Search(context.Context, string, int) ([]model.Company, error) {
	return nil, nil
}

func (s *stubCompanyRepo) Top(context.Context, dto.TopCompaniesParam) ([]model.Company, error) {
	return nil, nil
}

func (s *stubCompanyRepo) Stats(context.Context, string) ([]dto.GroupStat, error) {
	return nil, nil
}

func (s *stubCompanyRepo) Similar(context.Context, string, int) ([]model.Company, error) {
	return nil, nil
}

func (s *stubCompanyRepo) stored(ticker string) *model.Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts[ticker]
}

func (s *stubCompanyRepo) storedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserts)
}

type stubUniverseRepo struct {
	tickers []string
	err     error
}

func (s *stubUniverseRepo) Load(context.Context) ([]string, error) {
	return s.tickers, s.err
}

func testSyncConfig() *config.Config {
	return &config.Config{
		Sync: config.SyncConfig{
			Concurrency:    3,
			MaxRetries:     2,
			RetryBaseDelay: 100 * time.Millisecond,
			RetryMaxDelay:  400 * time.Millisecond,
			ChunkDelay:     time.Second,
			BatchDelay:     5 * time.Second,
		},
	}
}

// newTestSyncService wires the stubs and replaces the sleeper with one
// that records requested delays instead of waiting.
func newTestSyncService(companyRepo *stubCompanyRepo, sourceRepo *stubSourceRepo, universe *stubUniverseRepo) (*syncService, *[]time.Duration) {
	svc := NewSyncService(testSyncConfig(), logger.NewNop(), companyRepo, sourceRepo, universe).(*syncService)

	var mu sync.Mutex
	recorded := &[]time.Duration{}
	svc.sleep = func(_ context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()
		*recorded = append(*recorded, d)
		return nil
	}
	return svc, recorded
}

func validSummary(ticker string) *dto.RawCompanySummary {
	price := 10000.0
	return &dto.RawCompanySummary{Ticker: &ticker, PriceClose: &price}
}

func TestFetchWithRetry_SucceedsFirstAttempt(t *testing.T) {
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		return validSummary(ticker), nil
	})
	svc, delays := newTestSyncService(newStubCompanyRepo(), sourceRepo, &stubUniverseRepo{})

	outcome := svc.fetchWithRetry(context.Background(), "VIC", 5)

	assert.True(t, outcome.Success)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, 1, sourceRepo.attempts("VIC"))
	assert.Empty(t, *delays, "no backoff after immediate success")
}

func TestFetchWithRetry_ExhaustsAttemptsWithBackoff(t *testing.T) {
	sourceRepo := newStubSourceRepo(func(string, int) (*dto.RawCompanySummary, error) {
		return nil, nil // always empty payload
	})
	svc, delays := newTestSyncService(newStubCompanyRepo(), sourceRepo, &stubUniverseRepo{})

	outcome := svc.fetchWithRetry(context.Background(), "VIC", 4)

	assert.False(t, outcome.Success)
	assert.Equal(t, 4, outcome.Attempts)
	assert.Equal(t, 4, sourceRepo.attempts("VIC"))
	assert.Equal(t, "empty summary payload", outcome.Error)

	// min(base * 2^(n-1), cap) with base=100ms cap=400ms
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}, *delays)
}

func TestFetchWithRetry_RecoversAfterTransientError(t *testing.T) {
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		if attempt < 3 {
			return nil, errors.New("connection reset")
		}
		return validSummary(ticker), nil
	})
	svc, _ := newTestSyncService(newStubCompanyRepo(), sourceRepo, &stubUniverseRepo{})

	outcome := svc.fetchWithRetry(context.Background(), "HPG", 5)

	assert.True(t, outcome.Success)
	assert.Equal(t, 3, outcome.Attempts)
}

func TestBackoffDelay(t *testing.T) {
	base := 100 * time.Millisecond
	max := 400 * time.Millisecond

	assert.Equal(t, 100*time.Millisecond, backoffDelay(1, base, max))
	assert.Equal(t, 200*time.Millisecond, backoffDelay(2, base, max))
	assert.Equal(t, 400*time.Millisecond, backoffDelay(3, base, max))
	assert.Equal(t, 400*time.Millisecond, backoffDelay(10, base, max))
	assert.Equal(t, time.Duration(0), backoffDelay(3, 0, max))
}

func TestRun_ChunksAndCounters(t *testing.T) {
	universe := &stubUniverseRepo{tickers: []string{
		"T00", "T01", "T02", "T03", "T04", "T05", "T06", "T07", "T08", "T09",
	}}
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		if ticker == "T03" || ticker == "T07" {
			return nil, errors.New("boom")
		}
		return validSummary(ticker), nil
	})
	companyRepo := newStubCompanyRepo()
	svc, delays := newTestSyncService(companyRepo, sourceRepo, universe)

	stats, err := svc.Run(context.Background(), dto.SyncOptions{Concurrency: 3, MaxRetries: 1})

	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 8, stats.SuccessCount)
	assert.Equal(t, 2, stats.FailedCount)
	assert.Equal(t, 10, stats.SuccessCount+stats.FailedCount)
	assert.Equal(t, 8, companyRepo.storedCount())

	// 10 tickers at concurrency 3 means 4 chunks, so 3 inter-chunk pauses
	// and no retries (maxRetries=1), all at the configured chunk delay.
	require.Len(t, *delays, 3)
	for _, d := range *delays {
		assert.Equal(t, time.Second, d)
	}
}

func TestRun_BatchPausesBetweenBatches(t *testing.T) {
	universe := &stubUniverseRepo{tickers: []string{"A", "B", "C", "D"}}
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		return validSummary(ticker), nil
	})
	svc, delays := newTestSyncService(newStubCompanyRepo(), sourceRepo, universe)

	stats, err := svc.Run(context.Background(), dto.SyncOptions{BatchSize: 2, Concurrency: 2, MaxRetries: 1})

	require.NoError(t, err)
	assert.Equal(t, 4, stats.SuccessCount)

	// 2 batches of one chunk each: a single inter-batch pause.
	require.Len(t, *delays, 1)
	assert.Equal(t, 5*time.Second, (*delays)[0])
}

func TestRun_IndexRangeFilter(t *testing.T) {
	universe := &stubUniverseRepo{tickers: []string{
		"T00", "T01", "T02", "T03", "T04", "T05", "T06", "T07", "T08", "T09",
	}}
	var (
		mu      sync.Mutex
		fetched []string
	)
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		mu.Lock()
		fetched = append(fetched, ticker)
		mu.Unlock()
		return validSummary(ticker), nil
	})
	svc, _ := newTestSyncService(newStubCompanyRepo(), sourceRepo, universe)

	stats, err := svc.Run(context.Background(), dto.SyncOptions{StartIndex: 2, EndIndex: 5, Concurrency: 1, MaxRetries: 1})

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, []string{"T02", "T03", "T04"}, fetched)
}

func TestRun_ExplicitSubsetFilter(t *testing.T) {
	universe := &stubUniverseRepo{tickers: []string{"VIC", "FPT", "HPG", "VNM"}}
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		return validSummary(ticker), nil
	})
	companyRepo := newStubCompanyRepo()
	svc, _ := newTestSyncService(companyRepo, sourceRepo, universe)

	stats, err := svc.Run(context.Background(), dto.SyncOptions{Tickers: []string{"fpt", "VNM"}, MaxRetries: 1})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.NotNil(t, companyRepo.stored("FPT"))
	assert.NotNil(t, companyRepo.stored("VNM"))
	assert.Nil(t, companyRepo.stored("VIC"))
}

func TestRun_SkipExistingFilter(t *testing.T) {
	universe := &stubUniverseRepo{tickers: []string{"VIC", "FPT", "HPG"}}
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		return validSummary(ticker), nil
	})
	companyRepo := newStubCompanyRepo()
	companyRepo.existing["FPT"] = true
	svc, _ := newTestSyncService(companyRepo, sourceRepo, universe)

	stats, err := svc.Run(context.Background(), dto.SyncOptions{SkipExisting: true, MaxRetries: 1})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 0, sourceRepo.attempts("FPT"))
	assert.Equal(t, 1, sourceRepo.attempts("VIC"))
	assert.Equal(t, 1, sourceRepo.attempts("HPG"))
}

func TestRun_UniverseLoadFailureIsFatal(t *testing.T) {
	svc, _ := newTestSyncService(newStubCompanyRepo(), newStubSourceRepo(nil), &stubUniverseRepo{err: errors.New("no such file")})

	stats, err := svc.Run(context.Background(), dto.SyncOptions{})

	assert.Error(t, err)
	assert.Nil(t, stats)
}

func TestRun_UpsertFailureCountsAsFailed(t *testing.T) {
	universe := &stubUniverseRepo{tickers: []string{"VIC"}}
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		return validSummary(ticker), nil
	})
	companyRepo := newStubCompanyRepo()
	companyRepo.upsertErr = errors.New("storage unavailable")
	svc, _ := newTestSyncService(companyRepo, sourceRepo, universe)

	stats, err := svc.Run(context.Background(), dto.SyncOptions{MaxRetries: 1})

	require.NoError(t, err)
	assert.Equal(t, 0, stats.SuccessCount)
	assert.Equal(t, 1, stats.FailedCount)
	// The upsert failure is not retried at the fetch level.
	assert.Equal(t, 1, sourceRepo.attempts("VIC"))
}

func TestRun_EndToEndMixedOutcome(t *testing.T) {
	universe := &stubUniverseRepo{tickers: []string{"VIC", "BADTICKER"}}
	sourceRepo := newStubSourceRepo(func(ticker string, attempt int) (*dto.RawCompanySummary, error) {
		if ticker == "BADTICKER" {
			return nil, nil // empty payload on every attempt
		}
		return validSummary(ticker), nil
	})
	companyRepo := newStubCompanyRepo()
	svc, _ := newTestSyncService(companyRepo, sourceRepo, universe)

	stats, err := svc.Run(context.Background(), dto.SyncOptions{MaxRetries: 2})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, 1, stats.FailedCount)
	assert.Equal(t, 1, companyRepo.storedCount())
	assert.NotNil(t, companyRepo.stored("VIC"))
	assert.Equal(t, 2, sourceRepo.attempts("BADTICKER"))
}
