package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/stockinfo/config"
	"github.com/guttosm/stockinfo/internal/routes"
	"github.com/guttosm/stockinfo/internal/service"
	"github.com/guttosm/stockinfo/internal/upstream"
)

// stubUpstream records the last request URI and answers with a body per path.
type stubUpstream struct {
	mu      sync.Mutex
	lastURI string
	lastHdr http.Header
	body    func(r *http.Request) string
}

func (s *stubUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.lastURI = r.URL.RequestURI()
	s.lastHdr = r.Header.Clone()
	s.mu.Unlock()
	_, _ = w.Write([]byte(s.body(r)))
}

func (s *stubUpstream) last() (string, http.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastURI, s.lastHdr
}

func newProxy(t *testing.T, baseURL string, timeout time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client := upstream.NewClient(config.UpstreamConfig{BaseURL: baseURL, Timeout: timeout}, nil)
	svc := service.NewTickerService(client, client.BaseURL())
	return NewRouter(NewHandler(svc), RouterOptions{})
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRouter_PassThroughIdentityForAllRoutes(t *testing.T) {
	stub := &stubUpstream{body: func(r *http.Request) string {
		return fmt.Sprintf(`{"path":%q, "n": [1, 2.50, null]}`, r.URL.Path)
	}}
	srv := httptest.NewServer(stub)
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	for _, route := range routes.Table() {
		t.Run(route.Name, func(t *testing.T) {
			w := get(r, "/ticker/VHM/"+route.Name)
			require.Equal(t, http.StatusOK, w.Code)

			uri, hdr := stub.last()
			u, err := url.Parse(uri)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf(`{"path":%q, "n": [1, 2.50, null]}`, u.Path), w.Body.String())
			assert.Equal(t, "vi", hdr.Get("Accept-Language"))
			assert.Contains(t, uri, "VHM")
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_UnreachableUpstreamIsFailOpen(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	r := newProxy(t, base, time.Second)

	for _, route := range routes.Table() {
		t.Run(route.Name, func(t *testing.T) {
			w := get(r, "/ticker/VHM/"+route.Name)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "{}", w.Body.String())
		})
	}
}

func TestRouter_StatementDefaultsAndLiterals(t *testing.T) {
	stub := &stubUpstream{body: func(*http.Request) string { return `[]` }}
	srv := httptest.NewServer(stub)
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	for _, name := range []string{"incomestatement", "balancesheet", "cashflow", "financialratio"} {
		t.Run(name, func(t *testing.T) {
			get(r, "/ticker/VHM/"+name)
			uri, _ := stub.last()
			assert.Equal(t, "/tcanalysis/v1/finance/VHM/"+name+"?yearly=0&isAll=false", uri)

			get(r, "/ticker/VHM/"+name+"?yearly=1&isAll=true")
			uri, _ = stub.last()
			assert.Equal(t, "/tcanalysis/v1/finance/VHM/"+name+"?yearly=1&isAll=true", uri)

			get(r, "/ticker/VHM/"+name+"?yearly=5&isAll=nope")
			uri, _ = stub.last()
			assert.Equal(t, "/tcanalysis/v1/finance/VHM/"+name+"?yearly=5&isAll=nope", uri)
		})
	}
}

func TestRouter_PriceDefaults(t *testing.T) {
	stub := &stubUpstream{body: func(*http.Request) string { return `{}` }}
	srv := httptest.NewServer(stub)
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	before := time.Now().AddDate(0, 0, 3).Unix()
	get(r, "/ticker/VHM/price")
	after := time.Now().AddDate(0, 0, 3).Unix()

	uri, _ := stub.last()
	u, err := url.Parse(uri)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "/stock-insight/v2/stock/bars-long-term", u.Path)
	assert.Equal(t, "VHM", q.Get("ticker"))
	assert.Equal(t, "stock", q.Get("type"))
	assert.Equal(t, "D", q.Get("resolution"))
	assert.Equal(t, "30", q.Get("countBack"))
	to, err := strconv.ParseInt(q.Get("to"), 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, to, before)
	assert.LessOrEqual(t, to, after)

	get(r, "/ticker/VHM/price?endHistoryDate=1700000000&countBack=400")
	uri, _ = stub.last()
	assert.True(t, strings.HasSuffix(uri, "&to=1700000000&countBack=400"), uri)
}

func TestRouter_PriceScenario(t *testing.T) {
	const payload = `{"ticker":"VHM","data":[{"c":1},{"c":2},{"c":3},{"c":4},{"c":5}]}`
	stub := &stubUpstream{body: func(*http.Request) string { return payload }}
	srv := httptest.NewServer(stub)
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	w := get(r, "/ticker/VHM/price?countBack=5")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, w.Body.String())
	uri, _ := stub.last()
	assert.Contains(t, uri, "countBack=5")
}

func TestRouter_TickerCaseIsPreserved(t *testing.T) {
	stub := &stubUpstream{body: func(*http.Request) string { return `{}` }}
	srv := httptest.NewServer(stub)
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	get(r, "/ticker/vhm/overview")
	uri, _ := stub.last()
	assert.Equal(t, "/tcanalysis/v1/ticker/vhm/overview", uri)
}

func TestRouter_EscapedTickerIsForwarded(t *testing.T) {
	stub := &stubUpstream{body: func(*http.Request) string { return `{"ok":true}` }}
	srv := httptest.NewServer(stub)
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	cases := []struct {
		target string
		want   string
	}{
		{"/ticker/a%2Fb/overview", "/tcanalysis/v1/ticker/a%2Fb/overview"},
		{"/ticker/a%2Fb/indicator", "/tcanalysis/v1/data-charts/indicator?ticker=a%2Fb"},
		{"/ticker/A%20B/overview", "/tcanalysis/v1/ticker/A%20B/overview"},
		{"/ticker/A%26B/indicator", "/tcanalysis/v1/data-charts/indicator?ticker=A%26B"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			w := get(r, tc.target)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"ok":true}`, w.Body.String())

			uri, _ := stub.last()
			assert.Equal(t, tc.want, uri)
		})
	}
}

func TestRouter_UpstreamTimeoutScenario(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)
	r := newProxy(t, srv.URL, 200*time.Millisecond)

	start := time.Now()
	w := get(r, "/ticker/VHM/overview")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "{}", w.Body.String())
	assert.Equal(t, "transport", w.Header().Get("X-Upstream-Status"))
}

func TestRouter_NonJSONUpstreamIsFailOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	w := get(r, "/ticker/VHM/stockratio")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "{}", w.Body.String())
}

func TestRouter_Docs(t *testing.T) {
	r := newProxy(t, "http://127.0.0.1:1", time.Second)

	w := get(r, "/api-docs/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	for _, route := range routes.Table() {
		assert.Contains(t, doc.Paths, "/ticker/{ticker}/"+route.Name)
	}

	w = get(r, "/api-docs/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/api-docs/index.html", w.Header().Get("Location"))

	w = get(r, "/api-docs/index.html")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newProxy(t, "http://127.0.0.1:1", time.Second)
	w := get(r, "/ticker/VHM/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")
}

func TestRouter_ConcurrentRequestsAreIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `{"ticker":%q}`, r.URL.Query().Get("ticker"))
	}))
	defer srv.Close()
	r := newProxy(t, srv.URL, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ticker := fmt.Sprintf("T%02d", i)
			w := get(r, "/ticker/"+ticker+"/indicator")
			assert.Equal(t, fmt.Sprintf(`{"ticker":%q}`, ticker), w.Body.String())
		}(i)
	}
	wg.Wait()
}
