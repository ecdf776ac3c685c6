package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddlcheck/internal/schema"
)

func sampleTree() *schema.Tree {
	tree := schema.New()
	users := tree.Database("shop").Table("users")
	users.Set("id", "INT")
	users.Set("name", "VARCHAR(100)")
	tree.Database("shop").Table("orders").Set("total", "DECIMAL(10,2)")
	tree.Database("audit")
	return tree
}

func TestTree_PreservesInsertionOrder(t *testing.T) {
	tree := schema.New()
	tree.Database("zeta")
	tree.Database("alpha")
	tree.Database("mid")
	tree.Database("alpha")

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, tree.Names())
}

func TestColumnMap_SetKeepsPositionOnRedeclare(t *testing.T) {
	cols := schema.NewColumnMap()
	cols.Set("b", "INT")
	cols.Set("a", "INT")
	cols.Set("b", "BIGINT")

	assert.Equal(t, []string{"b", "a"}, cols.Names())
	typ, ok := cols.Get("b")
	require.True(t, ok)
	assert.Equal(t, "BIGINT", typ)
}

func TestTree_GetDoesNotCreate(t *testing.T) {
	tree := schema.New()
	_, ok := tree.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, tree.Len())
}

func TestTree_Stats(t *testing.T) {
	st := sampleTree().Stats()
	assert.Equal(t, schema.Stats{Databases: 2, Tables: 2, Columns: 3}, st)
}

func TestTree_Merge(t *testing.T) {
	a := sampleTree()
	b := schema.New()
	b.Database("shop").Table("users").Set("email", "VARCHAR(255)")
	b.Database("shop").Table("users").Set("id", "BIGINT")
	b.Database("crm").Table("leads").Set("id", "INT")

	a.Merge(b)

	assert.Equal(t, []string{"shop", "audit", "crm"}, a.Names())
	users, _ := a.Database("shop").Get("users")
	assert.Equal(t, []string{"id", "name", "email"}, users.Names())
	typ, _ := users.Get("id")
	assert.Equal(t, "BIGINT", typ)
}

func TestTree_Equal(t *testing.T) {
	assert.True(t, sampleTree().Equal(sampleTree()))

	other := sampleTree()
	other.Database("shop").Table("users").Set("id", "BIGINT")
	assert.False(t, sampleTree().Equal(other))

	other = sampleTree()
	other.Database("shop").Table("extra")
	assert.False(t, sampleTree().Equal(other))
}

func TestNilContainersAreEmpty(t *testing.T) {
	var cols *schema.ColumnMap
	assert.Equal(t, 0, cols.Len())
	assert.Nil(t, cols.Names())
	for range cols.All() {
		t.Fatal("nil ColumnMap should not yield")
	}
}
