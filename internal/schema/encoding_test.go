package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ddlcheck/internal/schema"
)

func TestTree_JSONKeepsOrder(t *testing.T) {
	data, err := json.Marshal(sampleTree())
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"shop":{"users":{"id":"INT","name":"VARCHAR(100)"},"orders":{"total":"DECIMAL(10,2)"}},"audit":{}}`,
		string(data))
	assert.Equal(t,
		`{"shop":{"users":{"id":"INT","name":"VARCHAR(100)"},"orders":{"total":"DECIMAL(10,2)"}},"audit":{}}`,
		string(data))
}

func TestTree_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(sampleTree())
	require.NoError(t, err)

	loaded := schema.New()
	require.NoError(t, json.Unmarshal(data, loaded))

	assert.True(t, sampleTree().Equal(loaded))
	assert.Equal(t, []string{"shop", "audit"}, loaded.Names())
	shop, _ := loaded.Get("shop")
	assert.Equal(t, []string{"users", "orders"}, shop.Names())
}

func TestTree_JSONRejectsNonStringType(t *testing.T) {
	loaded := schema.New()
	err := json.Unmarshal([]byte(`{"db":{"t":{"c":5}}}`), loaded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "c"`)
}

func TestTree_JSONRejectsArray(t *testing.T) {
	loaded := schema.New()
	err := json.Unmarshal([]byte(`{"db":[1,2]}`), loaded)
	require.Error(t, err)
}

func TestTree_JSONNullDatabaseIsEmpty(t *testing.T) {
	loaded := schema.New()
	require.NoError(t, json.Unmarshal([]byte(`{"db":null}`), loaded))
	tables, ok := loaded.Get("db")
	require.True(t, ok)
	assert.Equal(t, 0, tables.Len())
}

func TestTree_YAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(sampleTree())
	require.NoError(t, err)

	loaded := schema.New()
	require.NoError(t, yaml.Unmarshal(data, loaded))

	assert.True(t, sampleTree().Equal(loaded))
	assert.Equal(t, []string{"shop", "audit"}, loaded.Names())
}

func TestTree_YAMLQuotesTypes(t *testing.T) {
	tree := schema.New()
	tree.Database("d").Table("t").Set("flag", "YES")

	data, err := yaml.Marshal(tree)
	require.NoError(t, err)
	assert.Contains(t, string(data), `flag: "YES"`)

	loaded := schema.New()
	require.NoError(t, yaml.Unmarshal(data, loaded))
	typ, _ := loaded.Database("d").Table("t").Get("flag")
	assert.Equal(t, "YES", typ)
}

func TestTree_YAMLReadsHandWrittenDocument(t *testing.T) {
	doc := `
shop:
  users:
    id: INT
    price: DECIMAL(10,2)
  empty: {}
`
	loaded := schema.New()
	require.NoError(t, yaml.Unmarshal([]byte(doc), loaded))

	users, ok := loaded.Database("shop").Get("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "price"}, users.Names())
	typ, _ := users.Get("price")
	assert.Equal(t, "DECIMAL(10,2)", typ)
}

func TestTree_YAMLRejectsNestedColumnValue(t *testing.T) {
	loaded := schema.New()
	err := yaml.Unmarshal([]byte("db:\n  t:\n    c:\n      - a\n"), loaded)
	require.Error(t, err)
}
