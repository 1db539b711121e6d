package probe

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockinfo/internal/domain/models"
	"github.com/guttosm/stockinfo/internal/logger"
	"github.com/guttosm/stockinfo/internal/routes"
	"github.com/guttosm/stockinfo/internal/service"
	"github.com/guttosm/stockinfo/internal/upstream"
)

const maxParallel = 8

// RouteResult counts probe outcomes for one route.
type RouteResult struct {
	Route  string
	OK     int
	Failed int
	Kinds  map[upstream.Kind]int // failures by kind
}

// Report summarizes a probe run.
type Report struct {
	Routes  []RouteResult // sorted by route name
	OK      int
	Failed  int
	Elapsed time.Duration
}

// Run calls every route of the table once per ticker and reports the outcome.
//
// Behavior:
//   - Runs at most `parallel` calls at a time (0 = min(NumCPU, 8)).
//   - A failing call does not stop the others; all outcomes are counted.
//   - Default query parameters apply, exactly as for an inbound request without a query.
//
// Returns:
//   - Report: per-route counts.
//   - error: only when no ticker was given or ctx was cancelled.
func Run(ctx context.Context, svc service.TickerService, tickers []string, parallel int) (Report, error) {
	tickers = normalize(tickers)
	if len(tickers) == 0 {
		return Report{}, fmt.Errorf("probe: at least one ticker is required")
	}
	if parallel <= 0 {
		parallel = min(runtime.NumCPU(), maxParallel)
	}

	table := routes.Table()
	results := make(map[string]*RouteResult, len(table))
	for _, r := range table {
		results[r.Name] = &RouteResult{Route: r.Name, Kinds: map[upstream.Kind]int{}}
	}

	var mu sync.Mutex
	record := func(route models.Route, err error) {
		mu.Lock()
		defer mu.Unlock()
		rr := results[route.Name]
		if err != nil {
			rr.Failed++
			rr.Kinds[upstream.KindOf(err)]++
			return
		}
		rr.OK++
	}

	logger.L().Info().Strs("tickers", tickers).Int("routes", len(table)).Int("max_parallel", parallel).Msg("probe start")
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(parallel)
calls:
	for _, ticker := range tickers {
		for _, route := range table {
			if ctx.Err() != nil {
				break calls
			}
			g.Go(func() error {
				t0 := time.Now()
				_, err := svc.Fetch(ctx, route, ticker, func(string) string { return "" })
				record(route, err)

				ev := logger.L().Info()
				if err != nil {
					ev = logger.L().Warn().Err(err)
				}
				ev.Str("ticker", ticker).Str("route", route.Name).Dur("elapsed", time.Since(t0)).Bool("ok", err == nil).Msg("probe call")
				return nil
			})
		}
	}
	_ = g.Wait()

	report := Report{Elapsed: time.Since(start)}
	for _, rr := range results {
		report.Routes = append(report.Routes, *rr)
		report.OK += rr.OK
		report.Failed += rr.Failed
	}
	sort.Slice(report.Routes, func(i, j int) bool { return report.Routes[i].Route < report.Routes[j].Route })

	logger.L().Info().Int("ok", report.OK).Int("failed", report.Failed).Dur("elapsed", report.Elapsed).Msg("probe done")

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("probe interrupted: %w", err)
	}
	return report, nil
}

func normalize(tickers []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range tickers {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
