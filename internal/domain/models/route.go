package models

import "time"

// Schema types used by Param.Type and Route.Response.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

// Param describes one optional query parameter accepted by a proxied route.
//
// Fields:
//   - Name: query key, identical on the inbound and the upstream side.
//   - Type: schema type advertised in the docs (TypeInteger, TypeBoolean, ...).
//   - Description: human-readable description for the docs.
//   - Enum: allowed values advertised in the docs (not enforced).
//   - Maximum: advertised upper bound; 0 means none (not enforced).
//   - DefaultDoc: default value as shown in the docs.
//   - Default: computes the value forwarded when the parameter is absent.
//     It receives the request time so relative defaults stay per-request.
type Param struct {
	Name        string
	Type        string
	Description string
	Enum        []string
	Maximum     int
	DefaultDoc  string
	Default     func(now time.Time) string
}

// Route describes a single proxied endpoint.
//
// Upstream is a URL template relative to the upstream base URL. Placeholders
// have the form {name}: {ticker} plus one per entry in Params.
//
// swagger:model Route
type Route struct {
	Name        string  // short identifier, also the last path segment
	Path        string  // gin pattern, e.g. /ticker/:ticker/overview
	Upstream    string  // e.g. /tcanalysis/v1/ticker/{ticker}/overview
	Params      []Param // optional query parameters, in upstream order
	Summary     string
	Description string
	Tag         string
	Response    string // TypeObject or TypeArray
}
