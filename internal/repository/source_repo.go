package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vnstock-service/config"
	"vnstock-service/internal/dto"
	"vnstock-service/pkg/httpclient"
	"vnstock-service/pkg/logger"
	"vnstock-service/pkg/utils"

	"golang.org/x/time/rate"
)

// CompanySourceRepository fetches raw company summaries from the upstream
// data source.
type CompanySourceRepository interface {
	// FetchSummary returns the raw summary for one ticker. A nil summary
	// with a nil error means the source has no data for the ticker.
	FetchSummary(ctx context.Context, ticker string) (*dto.RawCompanySummary, error)
}

type companySourceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewCompanySourceRepository(cfg *config.Config, log *logger.Logger) CompanySourceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Source.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &companySourceRepository{
		httpClient:     httpclient.New(cfg.Source.BaseURL, cfg.Source.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *companySourceRepository) FetchSummary(ctx context.Context, ticker string) (*dto.RawCompanySummary, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	ticker = utils.NormalizeTicker(ticker)
	endpoint := fmt.Sprintf(r.cfg.Source.SummaryPath, ticker)
	queryParams := map[string]string{
		"ticker": ticker,
	}
	headers := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "vi-VN,vi;q=0.9,en-US;q=0.8",
	}

	var envelope dto.SummaryEnvelope
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, headers, &envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summary for %s: %w", ticker, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.WarnContext(ctx, "Source returned non-OK status",
			logger.StringField("ticker", ticker),
			logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("source returned status %d for %s", resp.StatusCode, ticker)
	}

	// Missing pageProps.summary is "no data", not a transport error.
	return envelope.PageProps.Summary, nil
}
