// Package sheets fetches the officer-facing source sheets as CSV exports
// and turns them into raw rows for the normalization core.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrolwatch/incident-etl/internal/domain"
	"github.com/patrolwatch/incident-etl/internal/observability"
	"github.com/patrolwatch/incident-etl/internal/ratelimit"
)

// Client downloads sheet CSV exports. All requests go through the shared
// rate limiter: the sheet host throttles aggressively and the three sheets
// are fetched concurrently every refresh.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a sheet fetcher with the given request timeout.
func NewClient(timeout time.Duration, limiter *ratelimit.Limiter, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchRows downloads one sheet and parses it into raw rows. The first CSV
// record is the header row; its labels become the row cell labels. Rows
// whose every cell is empty are skipped at this layer, everything else is
// left for the assembler's drop rules.
func (c *Client) FetchRows(ctx context.Context, sheet domain.SourceFormat, url string) ([]domain.RawRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait for %s sheet: %w", sheet, err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s sheet request: %w", sheet, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.SheetFetchErrors.WithLabelValues(string(sheet)).Inc()
		return nil, fmt.Errorf("fetch %s sheet: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.SheetFetchErrors.WithLabelValues(string(sheet)).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s sheet: status %d: %s", sheet, resp.StatusCode, body)
	}

	rows, err := parseCSV(resp.Body)
	if err != nil {
		c.metrics.SheetFetchErrors.WithLabelValues(string(sheet)).Inc()
		return nil, fmt.Errorf("parse %s sheet: %w", sheet, err)
	}

	c.metrics.SheetFetchDuration.WithLabelValues(string(sheet)).Observe(time.Since(start).Seconds())
	c.logger.Debug("sheet fetched", "sheet", sheet, "rows", len(rows))
	return rows, nil
}

// parseCSV reads header + data records into raw rows. Officers edit these
// sheets by hand, so ragged records are tolerated: short records simply
// produce fewer cells.
func parseCSV(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []domain.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		row := make(domain.RawRow, 0, len(record))
		empty := true
		for i, value := range record {
			if i >= len(header) {
				break
			}
			if value != "" {
				empty = false
			}
			row = append(row, domain.Cell{Label: header[i], Value: value})
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
