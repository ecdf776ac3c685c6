package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vvka-141/ddlcheck/internal/config"
	"github.com/vvka-141/ddlcheck/internal/ddl"
	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/logging"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

func newScaffolder() *Scaffolder {
	return NewScaffolder(logging.NewNullLogger())
}

func TestIsDirectoryEmpty(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		dirs      []string
		missing   bool
		wantEmpty bool
	}{
		{name: "nonexistent directory", missing: true, wantEmpty: true},
		{name: "empty directory", wantEmpty: true},
		{name: "directory with file", files: []string{"notes.txt"}},
		{name: "directory with subdirectory", dirs: []string{"sql"}},
		{name: "directory with hidden file", files: []string{".hidden"}},
		{name: "only ddlcheck.yaml", files: []string{"ddlcheck.yaml"}, wantEmpty: true},
		{name: "ddlcheck.toml and .env", files: []string{"ddlcheck.toml", ".env"}, wantEmpty: true},
		{name: "config and other files", files: []string{"ddlcheck.yaml", "other.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "target")
			if !tt.missing {
				if err := os.Mkdir(dir, 0o755); err != nil {
					t.Fatal(err)
				}
			}
			for _, f := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			for _, d := range tt.dirs {
				if err := os.Mkdir(filepath.Join(dir, d), 0o755); err != nil {
					t.Fatal(err)
				}
			}

			empty, err := isDirectoryEmpty(dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if empty != tt.wantEmpty {
				t.Errorf("isDirectoryEmpty = %v, want %v", empty, tt.wantEmpty)
			}
		})
	}
}

func TestIsDirectoryEmpty_FileIsRejected(t *testing.T) {
	p := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := isDirectoryEmpty(p); !errors.Is(err, ddlcheck.ErrConfigurationInvalid) {
		t.Errorf("err = %v, want ErrConfigurationInvalid", err)
	}
}

func TestCreateProject_RefusesNonEmptyDirectory(t *testing.T) {
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "existing.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := newScaffolder().CreateProject("shop", DefaultTemplate, target)
	if err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Fatalf("err = %v, want not empty", err)
	}
	if ddlcheck.ExitCodeForError(err) != ddlcheck.ExitConfigError {
		t.Errorf("exit code = %d", ddlcheck.ExitCodeForError(err))
	}
}

func TestCreateProject_UnknownTemplate(t *testing.T) {
	err := newScaffolder().CreateProject("shop", "nope", filepath.Join(t.TempDir(), "p"))
	if err == nil || !strings.Contains(err.Error(), DefaultTemplate) {
		t.Errorf("err = %v, want available templates listed", err)
	}
}

func TestCreateProject_CreatesUsableProject(t *testing.T) {
	target := filepath.Join(t.TempDir(), "web-shop")

	if err := newScaffolder().CreateProject("web-shop", DefaultTemplate, target); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	for _, f := range []string{"ddlcheck.yaml", ".env.example", ".gitignore", "README.md", "sql/schema.sql"} {
		if _, err := os.Stat(filepath.Join(target, filepath.FromSlash(f))); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	cfg, err := config.LoadFile(filepath.Join(target, "ddlcheck.yaml"))
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	conn, err := cfg.Connection(ddlcheck.DefaultAlias)
	if err != nil {
		t.Fatalf("default alias: %v", err)
	}
	conn.ApplyDefaults()
	if conn.Host != "localhost" || conn.Port != ddlcheck.DefaultPort {
		t.Errorf("conn = %+v", conn)
	}

	res, err := ddl.NewExtractor(filesystem.NewOSFileSystem()).ParseFile(filepath.Join(target, "sql", "schema.sql"))
	if err != nil {
		t.Fatalf("sample schema: %v", err)
	}
	if got := res.Tree.Names(); len(got) != 1 || got[0] != "web_shop" {
		t.Fatalf("databases = %v, want [web_shop]", got)
	}
	shop, _ := res.Tree.Get("web_shop")
	if got := shop.Names(); len(got) != 2 || got[0] != "users" || got[1] != "orders" {
		t.Errorf("tables = %v", got)
	}
	users, _ := shop.Get("users")
	if got := users.Names(); len(got) != 4 {
		t.Errorf("users columns = %v", got)
	}

	readme, _ := os.ReadFile(filepath.Join(target, "README.md"))
	if !strings.HasPrefix(string(readme), "# web-shop") {
		t.Errorf("project name not substituted:\n%s", readme)
	}
}

func TestCreateProject_KeepsExistingConfig(t *testing.T) {
	target := t.TempDir()
	existing := "databases:\n  default:\n    host: db.internal\n"
	if err := os.WriteFile(filepath.Join(target, "ddlcheck.yaml"), []byte(existing), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := newScaffolder().CreateProject("shop", DefaultTemplate, target); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(target, "ddlcheck.yaml"))
	if string(data) != existing {
		t.Errorf("config was replaced:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(target, "sql", "schema.sql")); err != nil {
		t.Errorf("template files missing: %v", err)
	}
}

func TestDatabaseName(t *testing.T) {
	tests := map[string]string{
		"shop":         "shop",
		"Web-Shop":     "web_shop",
		"my app 2":     "my_app_2",
		"--":           "app",
		"billing__api": "billing__api",
	}
	for in, want := range tests {
		if got := DatabaseName(in); got != want {
			t.Errorf("DatabaseName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListTemplates(t *testing.T) {
	names, err := ListTemplates()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 || names[0] != DefaultTemplate {
		t.Errorf("templates = %v", names)
	}
}

func TestBuildFileTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "project")
	for _, f := range []string{"README.md", "sql/a.sql", "sql/b.sql"} {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tree, err := BuildFileTree(root)
	if err != nil {
		t.Fatal(err)
	}
	want := "├── README.md\n└── sql/\n    ├── a.sql\n    └── b.sql\n"
	if !strings.HasSuffix(tree, want) {
		t.Errorf("tree:\n%s\nwant suffix:\n%s", tree, want)
	}
}
