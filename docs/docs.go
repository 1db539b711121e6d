// Package docs registers the API documentation served under /api-docs.
//
// Unlike swag-generated docs, the paths section is built at init time from the
// route table, so the handlers and their documentation cannot drift apart.
package docs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/guttosm/stockinfo/internal/domain/models"
	"github.com/guttosm/stockinfo/internal/routes"
	"github.com/swaggo/swag"
)

// InstanceName identifies this document in the swag registry.
const InstanceName = "stockinfo"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": %s,
    "tags": %s
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
// (e.g. the advertised host) before the first request.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Stock Information API",
	Description:      "Read-only proxy over the TCBS public analytics API.\nEvery endpoint answers 200 with the upstream JSON body, or {} when the upstream call fails.",
	InfoInstanceName: InstanceName,
	SwaggerTemplate:  Template(routes.Table()),
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Template renders the swag template for the given routes.
func Template(table []models.Route) string {
	paths, err := json.MarshalIndent(Paths(table), "    ", "    ")
	if err != nil {
		panic(fmt.Sprintf("docs: marshal paths: %v", err))
	}
	tags, err := json.MarshalIndent(tagList(table), "    ", "    ")
	if err != nil {
		panic(fmt.Sprintf("docs: marshal tags: %v", err))
	}
	return fmt.Sprintf(docTemplate, paths, tags)
}

// Paths returns the swagger "paths" object: one GET operation per route,
// plus the health probes.
func Paths(table []models.Route) map[string]any {
	paths := make(map[string]any, len(table)+2)
	for _, r := range table {
		paths[swaggerPath(r.Path)] = map[string]any{"get": operation(r)}
	}

	probe := func(summary string, codes ...int) map[string]any {
		responses := map[string]any{}
		for _, code := range codes {
			responses[strconv.Itoa(code)] = map[string]any{
				"description": http.StatusText(code),
				"schema":      map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
			}
		}
		return map[string]any{"get": map[string]any{
			"summary":   summary,
			"tags":      []string{"health"},
			"produces":  []string{"application/json"},
			"responses": responses,
		}}
	}
	paths["/healthz"] = probe("Liveness probe", 200)
	paths["/readyz"] = probe("Readiness probe (upstream reachable)", 200, 503)

	return paths
}

func operation(r models.Route) map[string]any {
	params := []map[string]any{{
		"name":        routes.TickerParam,
		"in":          "path",
		"required":    true,
		"type":        models.TypeString,
		"description": "Ticker symbol (e.g. VHM), forwarded as-is",
	}}
	for _, p := range r.Params {
		params = append(params, queryParam(p))
	}

	schema := map[string]any{"type": models.TypeObject}
	if r.Response == models.TypeArray {
		schema = map[string]any{"type": models.TypeArray, "items": map[string]any{"type": models.TypeObject}}
	}

	return map[string]any{
		"summary":     r.Summary,
		"description": r.Description,
		"operationId": r.Name,
		"tags":        []string{r.Tag},
		"produces":    []string{"application/json"},
		"parameters":  params,
		"responses": map[string]any{
			"200": map[string]any{
				"description": "Upstream JSON body, or {} when the upstream call failed",
				"schema":      schema,
			},
		},
	}
}

func queryParam(p models.Param) map[string]any {
	out := map[string]any{
		"name":        p.Name,
		"in":          "query",
		"required":    false,
		"type":        p.Type,
		"description": p.Description,
	}
	if len(p.Enum) > 0 {
		enum := make([]any, 0, len(p.Enum))
		for _, e := range p.Enum {
			enum = append(enum, typed(p.Type, e))
		}
		out["enum"] = enum
	}
	if p.Maximum > 0 {
		out["maximum"] = p.Maximum
	}
	// Relative defaults (e.g. "now + 3 days") only go into the description.
	if d := typed(p.Type, p.DefaultDoc); d != nil && fmt.Sprint(d) == p.DefaultDoc {
		out["default"] = d
	}
	return out
}

// typed converts a documented literal to the JSON type of the parameter.
func typed(typ, v string) any {
	switch typ {
	case models.TypeInteger:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		return nil
	case models.TypeBoolean:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return nil
	default:
		return v
	}
}

func tagList(table []models.Route) []map[string]string {
	descriptions := map[string]string{
		routes.TagCompany: "Company profile, ratios and dividends",
		routes.TagFinance: "Financial statements",
		routes.TagPrice:   "Prices and technical indicators",
		"health":          "Liveness and readiness probes",
	}
	var tags []map[string]string
	seen := map[string]bool{}
	for _, r := range table {
		if !seen[r.Tag] {
			seen[r.Tag] = true
			tags = append(tags, map[string]string{"name": r.Tag, "description": descriptions[r.Tag]})
		}
	}
	return append(tags, map[string]string{"name": "health", "description": descriptions["health"]})
}

// swaggerPath converts a gin pattern (/ticker/:ticker/x) to swagger form (/ticker/{ticker}/x).
func swaggerPath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(segs, "/")
}

