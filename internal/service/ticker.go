package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/guttosm/stockinfo/internal/domain/models"
	"github.com/guttosm/stockinfo/internal/routes"
	"github.com/guttosm/stockinfo/internal/upstream"
)

// TickerService maps a proxied route plus inbound parameters onto one upstream call.
type TickerService interface {
	Fetch(ctx context.Context, route models.Route, ticker string, query func(string) string) (json.RawMessage, error)
}

type tickerService struct {
	fetcher upstream.Fetcher
	baseURL string
	now     func() time.Time
}

// NewTickerService builds a TickerService that resolves URLs against baseURL.
func NewTickerService(fetcher upstream.Fetcher, baseURL string) TickerService {
	return &tickerService{fetcher: fetcher, baseURL: baseURL, now: time.Now}
}

func (s *tickerService) Fetch(ctx context.Context, route models.Route, ticker string, query func(string) string) (json.RawMessage, error) {
	values := routes.Resolve(route, query, s.now())
	return s.fetcher.Fetch(ctx, routes.BuildURL(s.baseURL, route, ticker, values))
}
