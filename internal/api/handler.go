package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockinfo/internal/domain/models"
	"github.com/guttosm/stockinfo/internal/logger"
	"github.com/guttosm/stockinfo/internal/middleware"
	"github.com/guttosm/stockinfo/internal/routes"
	"github.com/guttosm/stockinfo/internal/service"
	"github.com/guttosm/stockinfo/internal/upstream"
)

const jsonContentType = "application/json; charset=utf-8"

// emptyObject is the body sent in place of a failed upstream response.
var emptyObject = []byte("{}")

// Handler provides HTTP handlers for the proxied ticker endpoints.
//
// Responsibilities:
//   - Read the ticker path param and the raw query of the inbound request.
//   - Delegate URL construction and the upstream call to the service layer.
//   - Apply the fail-open policy: every answer is 200 with a JSON body.
type Handler struct {
	svc service.TickerService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.TickerService) *Handler {
	return &Handler{svc: svc}
}

// Proxy returns the gin handler serving route.
//
// Responses:
//   - 200 OK: the upstream JSON body, byte-for-byte.
//   - 200 OK: {} when the upstream call failed for any reason.
func (h *Handler) Proxy(route models.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticker := c.Param(routes.TickerParam)
		body, err := h.svc.Fetch(c.Request.Context(), route, ticker, c.Query)
		RespondUpstream(c, route, body, err)
	}
}

// RespondUpstream writes the outcome of an upstream call.
//
// Upstream failures are answered with 200 and {} so clients see one uniform
// shape; the failure kind goes to the log and to the X-Upstream-Status header.
func RespondUpstream(c *gin.Context, route models.Route, body json.RawMessage, err error) {
	if err != nil {
		kind := upstream.KindOf(err)
		if kind == "" {
			kind = upstream.KindTransport
		}
		logger.L().Warn().
			Str("request_id", middleware.GetRequestID(c)).
			Str("route", route.Name).
			Str("ticker", c.Param(routes.TickerParam)).
			Str("kind", string(kind)).
			Err(err).
			Msg("upstream failed, answering with empty object")

		c.Header(middleware.UpstreamStatusHeader, string(kind))
		c.Data(http.StatusOK, jsonContentType, emptyObject)
		return
	}

	c.Header(middleware.UpstreamStatusHeader, "ok")
	c.Data(http.StatusOK, jsonContentType, body)
}
