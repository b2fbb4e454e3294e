package dto

import (
	"time"

	"vnstock-service/internal/model"
)

// SyncOptions selects and paces one bulk sync run. Zero values fall back
// to the configured defaults.
type SyncOptions struct {
	Tickers      []string `json:"tickers,omitempty"`
	StartIndex   int      `json:"startIndex,omitempty"`
	EndIndex     int      `json:"endIndex,omitempty"`
	SkipExisting bool     `json:"skipExisting,omitempty"`
	BatchSize    int      `json:"batchSize,omitempty"`
	Concurrency  int      `json:"concurrency,omitempty"`
	MaxRetries   int      `json:"maxRetries,omitempty"`
}

// FetchOutcome is the per-ticker result of one fetch-with-retry cycle.
type FetchOutcome struct {
	Ticker   string
	Success  bool
	Company  *model.Company
	Error    string
	Attempts int
}

// ChunkStats aggregates outcomes of one concurrent chunk.
type ChunkStats struct {
	SuccessCount int
	FailedCount  int
}

func (c *ChunkStats) Add(other ChunkStats) {
	c.SuccessCount += other.SuccessCount
	c.FailedCount += other.FailedCount
}

// SyncStats is the end-of-run summary.
type SyncStats struct {
	Total        int           `json:"total"`
	SuccessCount int           `json:"successCount"`
	FailedCount  int           `json:"failedCount"`
	Elapsed      time.Duration `json:"elapsed"`
}

func (s SyncStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.Total) * 100
}

// Throughput reports processed items per minute.
func (s SyncStats) Throughput() float64 {
	minutes := s.Elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(s.SuccessCount+s.FailedCount) / minutes
}
