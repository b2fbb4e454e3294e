package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"vnstock-service/config"
	"vnstock-service/internal/dto"
	"vnstock-service/internal/repository"
	"vnstock-service/pkg/logger"
	"vnstock-service/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// SyncService drives the bulk company ingestion pipeline: load the ticker
// universe, filter it, then fetch-transform-upsert in bounded concurrent
// chunks.
type SyncService interface {
	Run(ctx context.Context, opts dto.SyncOptions) (*dto.SyncStats, error)
}

type syncService struct {
	cfg          *config.Config
	log          *logger.Logger
	companyRepo  repository.CompanyRepository
	sourceRepo   repository.CompanySourceRepository
	universeRepo repository.UniverseRepository

	// sleep is swappable so tests can observe the backoff schedule
	// without waiting it out.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSyncService(
	cfg *config.Config,
	log *logger.Logger,
	companyRepo repository.CompanyRepository,
	sourceRepo repository.CompanySourceRepository,
	universeRepo repository.UniverseRepository,
) SyncService {
	return &syncService{
		cfg:          cfg,
		log:          log,
		companyRepo:  companyRepo,
		sourceRepo:   sourceRepo,
		universeRepo: universeRepo,
		sleep:        sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes one full sync. Universe load failures abort the run, every
// later per-ticker failure is absorbed into the counters.
func (s *syncService) Run(ctx context.Context, opts dto.SyncOptions) (*dto.SyncStats, error) {
	opts = s.applyDefaults(opts)
	start := time.Now()

	universe, err := s.universeRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticker universe: %w", err)
	}
	s.log.InfoContext(ctx, "Loaded ticker universe", logger.IntField("count", len(universe)))

	tickers, err := s.filterTickers(ctx, universe, opts)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		s.log.InfoContext(ctx, "Nothing to sync after filtering")
		return &dto.SyncStats{Elapsed: time.Since(start)}, nil
	}

	batches := utils.ChunkSlice(tickers, opts.BatchSize)
	s.log.InfoContext(ctx, "Starting sync run",
		logger.IntField("tickers", len(tickers)),
		logger.IntField("batches", len(batches)),
		logger.IntField("concurrency", opts.Concurrency),
		logger.IntField("max_retries", opts.MaxRetries),
	)

	var (
		totals    dto.ChunkStats
		completed atomic.Int64
	)
	for i, batch := range batches {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		if i > 0 {
			s.log.InfoContext(ctx, "Pausing between batches",
				logger.DurationField("delay", s.cfg.Sync.BatchDelay))
			if err := s.sleep(ctx, s.cfg.Sync.BatchDelay); err != nil {
				break
			}
		}
		s.log.InfoContext(ctx, "Processing batch",
			logger.IntField("batch", i+1),
			logger.IntField("total_batches", len(batches)),
			logger.IntField("size", len(batch)),
		)
		stats := s.runBatch(ctx, batch, len(tickers), &completed, opts)
		totals.Add(stats)
	}

	result := &dto.SyncStats{
		Total:        len(tickers),
		SuccessCount: totals.SuccessCount,
		FailedCount:  totals.FailedCount,
		Elapsed:      time.Since(start),
	}
	s.log.InfoContext(ctx, "Sync run finished",
		logger.IntField("total", result.Total),
		logger.IntField("success", result.SuccessCount),
		logger.IntField("failed", result.FailedCount),
		logger.Float64Field("success_rate_pct", result.SuccessRate()),
		logger.Float64Field("items_per_minute", result.Throughput()),
		logger.DurationField("elapsed", result.Elapsed),
	)
	return result, nil
}

func (s *syncService) applyDefaults(opts dto.SyncOptions) dto.SyncOptions {
	if opts.BatchSize <= 0 {
		opts.BatchSize = s.cfg.Sync.BatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = s.cfg.Sync.Concurrency
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = s.cfg.Sync.MaxRetries
	}
	return opts
}

// filterTickers narrows the universe in fixed order: index range, explicit
// subset, then skip-existing. Order of the remaining tickers is preserved
// throughout.
func (s *syncService) filterTickers(ctx context.Context, universe []string, opts dto.SyncOptions) ([]string, error) {
	tickers := universe

	if opts.StartIndex > 0 || opts.EndIndex > 0 {
		start := opts.StartIndex
		if start < 0 {
			start = 0
		}
		end := opts.EndIndex
		if end <= 0 || end > len(tickers) {
			end = len(tickers)
		}
		if start > end {
			start = end
		}
		tickers = tickers[start:end]
		s.log.InfoContext(ctx, "Applied index range",
			logger.IntField("start", start),
			logger.IntField("end", end),
			logger.IntField("remaining", len(tickers)),
		)
	}

	if len(opts.Tickers) > 0 {
		subset := make(map[string]struct{}, len(opts.Tickers))
		for _, t := range opts.Tickers {
			subset[utils.NormalizeTicker(t)] = struct{}{}
		}
		filtered := make([]string, 0, len(tickers))
		for _, t := range tickers {
			if _, ok := subset[t]; ok {
				filtered = append(filtered, t)
			}
		}
		tickers = filtered
		s.log.InfoContext(ctx, "Applied explicit subset",
			logger.IntField("remaining", len(tickers)))
	}

	if opts.SkipExisting {
		filtered := make([]string, 0, len(tickers))
		for _, t := range tickers {
			exists, err := s.companyRepo.Exists(ctx, t)
			if err != nil {
				return nil, fmt.Errorf("existence check failed for %s: %w", t, err)
			}
			if !exists {
				filtered = append(filtered, t)
			}
		}
		tickers = filtered
		s.log.InfoContext(ctx, "Skipped existing companies",
			logger.IntField("remaining", len(tickers)))
	}

	return tickers, nil
}

// runBatch splits one batch into concurrency-sized chunks and processes
// them strictly one after another with the inter-chunk pause in between.
func (s *syncService) runBatch(ctx context.Context, batch []string, total int, completed *atomic.Int64, opts dto.SyncOptions) dto.ChunkStats {
	var stats dto.ChunkStats

	chunks := utils.ChunkSlice(batch, opts.Concurrency)
	for i, chunk := range chunks {
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.Sync.ChunkDelay); err != nil {
				break
			}
		}
		stats.Add(s.runChunk(ctx, chunk, total, completed, opts))
	}
	return stats
}

// runChunk drives one chunk concurrently and joins before returning, so
// chunk N+1 never overlaps chunk N. Each fetch owns its outcome slot,
// successes are upserted as they complete.
func (s *syncService) runChunk(ctx context.Context, chunk []string, total int, completed *atomic.Int64, opts dto.SyncOptions) dto.ChunkStats {
	outcomes := make([]dto.FetchOutcome, len(chunk))

	var g errgroup.Group
	for i, ticker := range chunk {
		i, ticker := i, ticker
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = dto.FetchOutcome{
						Ticker: ticker,
						Error:  fmt.Sprintf("panic during fetch: %v", r),
					}
				}
			}()

			outcome := s.fetchWithRetry(ctx, ticker, opts.MaxRetries)
			if outcome.Success {
				if err := s.companyRepo.Upsert(ctx, outcome.Company); err != nil {
					s.log.ErrorContext(ctx, "Failed to upsert company",
						logger.StringField("ticker", ticker),
						logger.ErrorField(err))
					outcome.Success = false
					outcome.Error = fmt.Sprintf("upsert failed: %v", err)
				}
			}
			outcomes[i] = outcome

			done := completed.Add(1)
			s.log.InfoContext(ctx, "Ticker processed",
				logger.StringField("ticker", ticker),
				logger.Field("success", outcome.Success),
				logger.IntField("attempts", outcome.Attempts),
				logger.IntField("position", int(done)),
				logger.IntField("total", total),
				logger.Float64Field("progress_pct", float64(done)/float64(total)*100),
			)
			return nil
		})
	}
	_ = g.Wait()

	var stats dto.ChunkStats
	for _, outcome := range outcomes {
		if outcome.Success {
			stats.SuccessCount++
		} else {
			stats.FailedCount++
		}
	}
	return stats
}

// fetchWithRetry attempts one ticker up to maxAttempts times with
// exponential backoff capped at the configured ceiling. All failure modes
// end up in the outcome, nothing escapes.
func (s *syncService) fetchWithRetry(ctx context.Context, ticker string, maxAttempts int) dto.FetchOutcome {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := s.sourceRepo.FetchSummary(ctx, ticker)
		switch {
		case err != nil:
			lastErr = err.Error()
		case raw == nil:
			lastErr = "empty summary payload"
		default:
			return dto.FetchOutcome{
				Ticker:   ticker,
				Success:  true,
				Company:  transformSummary(ctx, s.log, ticker, raw),
				Attempts: attempt,
			}
		}

		if attempt < maxAttempts {
			delay := backoffDelay(attempt, s.cfg.Sync.RetryBaseDelay, s.cfg.Sync.RetryMaxDelay)
			s.log.WarnContext(ctx, "Fetch attempt failed, retrying",
				logger.StringField("ticker", ticker),
				logger.IntField("attempt", attempt),
				logger.IntField("max_attempts", maxAttempts),
				logger.DurationField("backoff", delay),
				logger.StringField("reason", lastErr),
			)
			if err := s.sleep(ctx, delay); err != nil {
				return dto.FetchOutcome{
					Ticker:   ticker,
					Error:    fmt.Sprintf("cancelled while backing off: %v (last error: %s)", err, lastErr),
					Attempts: attempt,
				}
			}
		}
	}

	return dto.FetchOutcome{
		Ticker:   ticker,
		Error:    lastErr,
		Attempts: maxAttempts,
	}
}

// backoffDelay returns min(base * 2^(attempt-1), max).
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if max > 0 && delay >= max {
			return max
		}
	}
	if max > 0 && delay > max {
		return max
	}
	return delay
}
