package okx

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/AlgoRichLabs/backtest/internal/domain"
)

const (
	candlesPerPage = 100
	maxPages       = 200 // tope duro, ~55 años de velas diarias
)

// candlesResponse es el envelope de OKX: las filas de data son
// [ts, open, high, low, close, ...], la más nueva primero, ts en millis.
type candlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// FetchDailyHistory descarga el histórico de cierres diarios de un
// instrumento (p.ej. "BTC-USDT") cubriendo [from, to]. Pagina hacia atrás
// desde la vela más nueva hasta cubrir la ventana.
func (c *Client) FetchDailyHistory(ctx context.Context, instID string, from, to time.Time) (domain.Series, error) {
	var series domain.Series
	after := ""

	for page := 0; page < maxPages; page++ {
		rows, err := c.fetchCandlePage(ctx, instID, after)
		if err != nil {
			return nil, fmt.Errorf("okx.FetchDailyHistory: %s: %w", instID, err)
		}
		if len(rows) == 0 {
			break
		}

		var oldest time.Time
		for _, row := range rows {
			if len(row) < 5 {
				return nil, fmt.Errorf("okx.FetchDailyHistory: %s: short candle row %v", instID, row)
			}
			millis, err := strconv.ParseInt(row[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("okx.FetchDailyHistory: %s: parse ts %q: %w", instID, row[0], err)
			}
			closePrice, err := strconv.ParseFloat(row[4], 64)
			if err != nil {
				return nil, fmt.Errorf("okx.FetchDailyHistory: %s: parse close %q: %w", instID, row[4], err)
			}

			date := time.UnixMilli(millis).UTC()
			oldest = date
			series = append(series, domain.Candle{Date: date, Close: closePrice})
		}

		if oldest.Before(from) {
			break
		}
		after = rows[len(rows)-1][0]
	}

	return series.Normalize().Clip(domain.Day(from), domain.Day(to)), nil
}

// fetchCandlePage trae una página de velas diarias más antiguas que
// `after` (las más nuevas de todas cuando está vacío).
func (c *Client) fetchCandlePage(ctx context.Context, instID, after string) ([][]string, error) {
	q := url.Values{}
	q.Set("instId", instID)
	q.Set("bar", "1D")
	q.Set("limit", strconv.Itoa(candlesPerPage))
	if after != "" {
		q.Set("after", after)
	}

	var resp candlesResponse
	u := c.baseURL + "/api/v5/market/history-candles?" + q.Encode()
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, err
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("api code %s: %s", resp.Code, resp.Msg)
	}
	return resp.Data, nil
}
