package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/guttosm/stockinfo/internal/routes"
)

type swaggerDoc struct {
	Swagger string `json:"swagger"`
	Info    struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"info"`
	Paths map[string]map[string]struct {
		OperationID string `json:"operationId"`
		Parameters  []struct {
			Name     string `json:"name"`
			In       string `json:"in"`
			Required bool   `json:"required"`
			Type     string `json:"type"`
			Default  any    `json:"default"`
			Maximum  int    `json:"maximum"`
			Enum     []any  `json:"enum"`
		} `json:"parameters"`
		Responses map[string]struct {
			Schema struct {
				Type string `json:"type"`
			} `json:"schema"`
		} `json:"responses"`
	} `json:"paths"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

func readDoc(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := swag.ReadDoc(InstanceName)
	require.NoError(t, err)
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), raw)
	return doc
}

func TestRegisteredDocIsValidJSON(t *testing.T) {
	doc := readDoc(t)
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Stock Information API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.NotEmpty(t, doc.Tags)
}

func TestEveryRouteIsDocumented(t *testing.T) {
	doc := readDoc(t)
	for _, r := range routes.Table() {
		op, ok := doc.Paths[swaggerPath(r.Path)]["get"]
		require.True(t, ok, "missing %s", r.Path)
		assert.Equal(t, r.Name, op.OperationID)
		require.Len(t, op.Parameters, 1+len(r.Params))
		assert.Equal(t, "ticker", op.Parameters[0].Name)
		assert.Equal(t, "path", op.Parameters[0].In)
		assert.True(t, op.Parameters[0].Required)
		assert.Equal(t, r.Response, op.Responses["200"].Schema.Type)
	}
	assert.Contains(t, doc.Paths, "/healthz")
	assert.Contains(t, doc.Paths, "/readyz")
}

func TestQueryParamMetadata(t *testing.T) {
	doc := readDoc(t)

	price := doc.Paths["/ticker/{ticker}/price"]["get"]
	byName := map[string]int{}
	for i, p := range price.Parameters {
		byName[p.Name] = i
	}
	countBack := price.Parameters[byName["countBack"]]
	assert.Equal(t, 365, countBack.Maximum)
	assert.EqualValues(t, 30, countBack.Default)
	assert.Nil(t, price.Parameters[byName["endHistoryDate"]].Default)

	income := doc.Paths["/ticker/{ticker}/incomestatement"]["get"]
	require.Len(t, income.Parameters, 3)
	yearly, isAll := income.Parameters[1], income.Parameters[2]
	assert.Equal(t, "yearly", yearly.Name)
	assert.Equal(t, []any{float64(0), float64(1)}, yearly.Enum)
	assert.Equal(t, false, isAll.Default)
	assert.Equal(t, "boolean", isAll.Type)
}

func TestSwaggerPath(t *testing.T) {
	assert.Equal(t, "/ticker/{ticker}/overview", swaggerPath("/ticker/:ticker/overview"))
	assert.Equal(t, "/healthz", swaggerPath("/healthz"))
}
