package routes

import (
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/stockinfo/internal/domain/models"
)

// Resolve returns the value forwarded upstream for each of the route's params.
//
// A parameter that is absent or empty gets its default; anything else is
// forwarded literally, without validation ("isAll=0", "countBack=9999").
//
// Parameters:
//   - route: the route whose params are resolved.
//   - query: looks up an inbound query value, returning "" when absent
//     (gin's c.Query fits).
//   - now: request time used by relative defaults.
func Resolve(route models.Route, query func(string) string, now time.Time) map[string]string {
	values := make(map[string]string, len(route.Params))
	for _, p := range route.Params {
		if v := query(p.Name); v != "" {
			values[p.Name] = v
			continue
		}
		values[p.Name] = p.Default(now)
	}
	return values
}

// BuildURL substitutes ticker and values into the route's upstream template
// and prefixes it with base.
//
// The ticker is neither validated nor case-transformed. Values are escaped only
// as far as needed to keep the URL well-formed: path escaping before the '?',
// query escaping after it. Alphanumeric tickers and numbers pass unchanged.
// Placeholders without a value are left as-is.
func BuildURL(base string, route models.Route, ticker string, values map[string]string) string {
	tmpl := route.Upstream
	path, query, hasQuery := strings.Cut(tmpl, "?")

	path = substitute(path, ticker, values, url.PathEscape)
	if !hasQuery {
		return strings.TrimRight(base, "/") + path
	}
	query = substitute(query, ticker, values, url.QueryEscape)
	return strings.TrimRight(base, "/") + path + "?" + query
}

func substitute(s, ticker string, values map[string]string, escape func(string) string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	pairs := make([]string, 0, 2*(len(values)+1))
	pairs = append(pairs, "{"+TickerParam+"}", escape(ticker))
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", escape(v))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
