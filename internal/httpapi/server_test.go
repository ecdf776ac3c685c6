package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/schema"
	"github.com/vvka-141/ddlcheck/internal/validator"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

const shopSQL = `USE shop;
CREATE TABLE users (
  id INT NOT NULL AUTO_INCREMENT,
  name VARCHAR(100),
  PRIMARY KEY (id)
);`

type fixture struct {
	fs      *filesystem.MemoryFileSystem
	server  *Server
	checked *schema.Tree
}

func newFixture(t *testing.T, check CheckFunc) *fixture {
	t.Helper()
	f := &fixture{fs: filesystem.NewMemoryFileSystem("/work")}
	if check == nil {
		check = func(_ context.Context, tree *schema.Tree) (*validator.Summary, error) {
			f.checked = tree
			return mismatchSummary(), nil
		}
	}
	f.server = New(Config{SQLDir: "sql", OutputDir: "output"}, f.fs, check, nil)
	f.server.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) do(t *testing.T, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func mismatchSummary() *validator.Summary {
	return &validator.Summary{
		RunID: "run-1",
		Databases: []validator.DatabaseResult{{
			Name:   "shop",
			Status: validator.Mismatch,
			Tables: []validator.TableResult{{
				Name:   "users",
				Status: validator.Mismatch,
				Columns: []validator.ColumnResult{
					{Name: "id", Expected: "INT", Actual: "int", Status: validator.Match},
					{Name: "name", Expected: "VARCHAR(100)", Status: validator.ColumnMissing},
				},
			}},
		}},
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	rec, body := f.do(t, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "2025-03-01T12:00:00Z", body["timestamp"])
}

func TestIndexListsEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	rec, body := f.do(t, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "endpoints")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)
	rec, _ := f.do(t, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParse_WritesStructureFile(t *testing.T) {
	f := newFixture(t, nil)
	f.fs.AddFile("sql/2.sql", shopSQL)

	rec, body := f.do(t, http.MethodPost, "/parse/2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", body["message"])
	assert.Equal(t, "output/2.json", body["output"])
	assert.EqualValues(t, 1, body["databases"])
	assert.EqualValues(t, 1, body["tables"])
	assert.EqualValues(t, 2, body["columns"])

	data, err := f.fs.ReadFile("output/2.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"shop":{"users":{"id":"INT","name":"VARCHAR(100)"}}}`, string(data))
}

func TestParse_AcceptsExtension(t *testing.T) {
	f := newFixture(t, nil)
	f.fs.AddFile("sql/2.sql", shopSQL)

	rec, _ := f.do(t, http.MethodPost, "/parse/2.sql")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParse_ReportsDiagnostics(t *testing.T) {
	f := newFixture(t, nil)
	f.fs.AddFile("sql/bad.sql", "CREATE TABLE orphan (id INT);")

	rec, body := f.do(t, http.MethodPost, "/parse/bad")
	require.Equal(t, http.StatusOK, rec.Code)
	diags, ok := body["diagnostics"].([]any)
	require.True(t, ok, "diagnostics missing: %v", body)
	assert.Len(t, diags, 1)
}

func TestParse_MissingFile(t *testing.T) {
	f := newFixture(t, nil)
	rec, body := f.do(t, http.MethodPost, "/parse/absent")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "file absent not found", body["error"])
}

func TestParse_WrongMethod(t *testing.T) {
	f := newFixture(t, nil)
	rec, _ := f.do(t, http.MethodGet, "/parse/2")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCheck_WritesReport(t *testing.T) {
	f := newFixture(t, nil)
	f.fs.AddFile("output/2.json", `{"shop":{"users":{"id":"INT","name":"VARCHAR(100)"}}}`)

	rec, body := f.do(t, http.MethodGet, "/check/2.json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success, please see the output folder", body["message"])
	assert.Equal(t, "2.json", body["file_processed"])
	assert.Equal(t, "output/database_validation.md", body["report"])
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, true, body["discrepancies"])
	assert.Equal(t, map[string]any{"match": float64(1), "column_missing": float64(1)}, body["counts"])

	require.NotNil(t, f.checked)
	assert.Equal(t, []string{"shop"}, f.checked.Names())

	md, err := f.fs.ReadFile("output/database_validation.md")
	require.NoError(t, err)
	assert.Contains(t, string(md), "# 数据库结构校验报告")
	assert.Contains(t, string(md), "字段不存在")
}

func TestCheck_AcceptsYAML(t *testing.T) {
	for _, name := range []string{"s.yaml", "s.yml"} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.fs.AddFile("output/"+name, "shop:\n  users:\n    id: INT\n")

			rec, _ := f.do(t, http.MethodGet, "/check/"+name)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}
}

func TestCheck_RejectsNames(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"other extension", "/check/2.txt", "only JSON/YAML files are allowed"},
		{"no extension", "/check/2", "only JSON/YAML files are allowed"},
		{"encoded slash", "/check/a%2Fb.json", "invalid file name"},
		{"backslash", "/check/a%5Cb.json", "invalid file name"},
		{"dot dot", "/check/..secret.json", "invalid file name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			f := newFixture(t, func(context.Context, *schema.Tree) (*validator.Summary, error) {
				called = true
				return mismatchSummary(), nil
			})
			rec, body := f.do(t, http.MethodGet, tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, body["error"])
			assert.False(t, called)
		})
	}
}

func TestCheck_MissingFile(t *testing.T) {
	f := newFixture(t, nil)
	rec, body := f.do(t, http.MethodGet, "/check/absent.json")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "file absent.json not found", body["error"])
}

func TestCheck_FailuresAreInternal(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   CheckFunc
	}{
		{
			name:    "bad shape",
			content: `{"shop":["not","an","object"]}`,
		},
		{
			name:    "connection failure",
			content: `{"shop":{}}`,
			check: func(context.Context, *schema.Tree) (*validator.Summary, error) {
				return nil, fmt.Errorf("dial: %w", ddlcheck.ErrConnectionFailed)
			},
		},
		{
			name:    "configuration",
			content: `{"shop":{}}`,
			check: func(context.Context, *schema.Tree) (*validator.Summary, error) {
				return nil, errors.New("password required")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.check)
			f.fs.AddFile("output/s.json", tt.content)

			rec, body := f.do(t, http.MethodGet, "/check/s.json")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "file processing failed", body["error"])

			_, err := f.fs.ReadFile("output/database_validation.md")
			assert.Error(t, err, "no report on failure")
		})
	}
}

func TestParseThenCheck(t *testing.T) {
	f := newFixture(t, nil)
	f.fs.AddFile("sql/shop.sql", shopSQL)

	rec, _ := f.do(t, http.MethodPost, "/parse/shop")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/check/shop.json")
	require.Equal(t, http.StatusOK, rec.Code)

	users, ok := f.checked.Database("shop").Get("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, users.Names())
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.server.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNew_Panics(t *testing.T) {
	fs := filesystem.NewMemoryFileSystem("/")
	check := func(context.Context, *schema.Tree) (*validator.Summary, error) { return nil, nil }

	assert.Panics(t, func() { New(Config{}, nil, check, nil) })
	assert.Panics(t, func() { New(Config{}, fs, nil, nil) })
}

func TestCheckFileName(t *testing.T) {
	for _, name := range []string{"", "a/b", `a\b`, "..", "x..y"} {
		assert.Error(t, checkFileName(name), name)
	}
	for _, name := range []string{"2.json", "schema.v1.yaml"} {
		assert.NoError(t, checkFileName(name), name)
	}
	assert.True(t, strings.HasSuffix(ddlcheck.DefaultReportFile, ".md"))
}
