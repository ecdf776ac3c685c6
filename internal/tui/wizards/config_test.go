package wizards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/ddlcheck/internal/config"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

func asConfigWizard(t *testing.T, m tea.Model) ConfigWizard {
	t.Helper()
	w, ok := m.(ConfigWizard)
	if !ok {
		t.Fatalf("expected ConfigWizard, got %T", m)
	}
	return w
}

func pressConfig(t *testing.T, w ConfigWizard, keys ...string) (ConfigWizard, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var m tea.Model
		m, cmd = w.Update(keyMsg(k))
		w = asConfigWizard(t, m)
	}
	return w, cmd
}

func passwordConn() ddlcheck.ConnectionConfig {
	cfg := ddlcheck.ConnectionConfig{Host: "db.internal", Username: "app", Password: "pw"}
	cfg.ApplyDefaults()
	return cfg
}

func TestConfigWizard_DefaultAlias(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w, _ = pressConfig(t, w, "enter")
	if w.step != configStepPassword {
		t.Fatalf("step = %d, want configStepPassword", w.step)
	}
	w, _ = pressConfig(t, w, "enter", "enter", "enter")
	w, cmd := pressConfig(t, w, "enter")
	if !isQuitCmd(cmd) {
		t.Fatal("expected quit after review")
	}

	res := w.Result()
	if res.Cancelled {
		t.Fatal("unexpected cancel")
	}
	if res.Alias != ddlcheck.DefaultAlias {
		t.Errorf("alias = %q, want %q", res.Alias, ddlcheck.DefaultAlias)
	}
	entry := res.Config.Databases[ddlcheck.DefaultAlias]
	if entry.Host != "db.internal" || entry.Username != "app" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Password != "" {
		t.Error("password should not be stored unless asked")
	}
	if entry.Port != 0 {
		t.Errorf("default port should be omitted, got %d", entry.Port)
	}
	if res.Config.Timeout != "5m" {
		t.Errorf("timeout = %q", res.Config.Timeout)
	}
}

func TestConfigWizard_StorePasswordOnRequest(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w.aliasInput.SetValue("prod")
	w, _ = pressConfig(t, w, "enter", "y", "enter", "enter", "enter")

	res := w.Result()
	if res.Alias != "prod" {
		t.Errorf("alias = %q", res.Alias)
	}
	if got := res.Config.Databases["prod"].Password; got != "pw" {
		t.Errorf("password = %q, want pw", got)
	}
}

func TestConfigWizard_TokenAuthSkipsPasswordStep(t *testing.T) {
	conn := ddlcheck.ConnectionConfig{
		Host: "db.rds.amazonaws.com", Username: "iam_user",
		AuthMethod: ddlcheck.AuthMethodAWSIAM, AWSRegion: "us-east-1",
	}
	w := NewConfigWizard(conn, nil)
	w, _ = pressConfig(t, w, "enter")
	if w.step != configStepTimeout {
		t.Fatalf("step = %d, want configStepTimeout", w.step)
	}
	w, _ = pressConfig(t, w, "enter", "enter", "enter")
	entry := w.Result().Config.Databases[ddlcheck.DefaultAlias]
	if entry.AuthMethod != "aws" || entry.AWSRegion != "us-east-1" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestConfigWizard_RejectsBadAlias(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w.aliasInput.SetValue("my alias")
	w, _ = pressConfig(t, w, "enter")
	if w.step != configStepAlias {
		t.Fatalf("step = %d, want to stay on alias", w.step)
	}
	if !strings.Contains(w.View(), "alias cannot contain") {
		t.Error("validation error not rendered")
	}
}

func TestConfigWizard_TimeoutChoice(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w, _ = pressConfig(t, w, "enter", "n")
	if w.timeout != "5m" {
		t.Fatalf("initial timeout = %q, want 5m", w.timeout)
	}
	w, _ = pressConfig(t, w, "down", "down", "down")
	if w.timeout != "30m" {
		t.Errorf("timeout = %q, want 30m", w.timeout)
	}
	w, _ = pressConfig(t, w, "up", "up", "up", "up")
	if w.timeout != "1m" {
		t.Errorf("timeout = %q, want 1m", w.timeout)
	}
	w, _ = pressConfig(t, w, "down", "enter", "enter", "enter")
	if got := w.Result().Config.Timeout; got != "5m" {
		t.Errorf("saved timeout = %q", got)
	}
}

func TestConfigWizard_MergesExistingAliases(t *testing.T) {
	existing := &config.ProjectConfig{
		Databases: map[string]config.DatabaseConfig{
			"staging": {Host: "staging.internal"},
		},
		OutputDir: "reports",
	}
	w := NewConfigWizard(passwordConn(), existing)
	w.aliasInput.SetValue("prod")
	w, _ = pressConfig(t, w, "enter", "n", "enter", "enter", "enter")

	cfg := w.Result().Config
	if len(cfg.Databases) != 2 {
		t.Fatalf("aliases = %v", cfg.Aliases())
	}
	if cfg.Databases["staging"].Host != "staging.internal" {
		t.Error("existing alias lost")
	}
	if cfg.OutputDir != "reports" {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
	if len(existing.Databases) != 1 {
		t.Error("existing config must not be modified")
	}
}

func TestConfigWizard_WarnsOnReplace(t *testing.T) {
	existing := &config.ProjectConfig{
		Databases: map[string]config.DatabaseConfig{ddlcheck.DefaultAlias: {Host: "old"}},
	}
	w := NewConfigWizard(passwordConn(), existing)
	if !strings.Contains(w.View(), "will be replaced") {
		t.Error("expected replace warning")
	}
}

func TestConfigWizard_ReviewShowsYAML(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w, _ = pressConfig(t, w, "enter", "n", "enter", "enter")
	if w.step != configStepReview {
		t.Fatalf("step = %d, want configStepReview", w.step)
	}
	view := w.View()
	for _, want := range []string{"databases:", "host: db.internal", "username: app"} {
		if !strings.Contains(view, want) {
			t.Errorf("review missing %q:\n%s", want, view)
		}
	}
}

func TestConfigWizard_BackNavigation(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w, _ = pressConfig(t, w, "enter", "n", "enter", "enter")
	w, _ = pressConfig(t, w, "esc")
	if w.step != configStepOutputDir {
		t.Errorf("step = %d, want configStepOutputDir", w.step)
	}
	w, _ = pressConfig(t, w, "esc")
	if w.step != configStepTimeout {
		t.Errorf("step = %d, want configStepTimeout", w.step)
	}
	w, _ = pressConfig(t, w, "esc")
	if w.step != configStepAlias {
		t.Errorf("step = %d, want configStepAlias", w.step)
	}
	w, cmd := pressConfig(t, w, "esc")
	if !w.Result().Cancelled || !isQuitCmd(cmd) {
		t.Error("esc on the first step should cancel")
	}
}

func TestConfigWizard_SavedConfigLoadsBack(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w, _ = pressConfig(t, w, "enter", "y", "enter", "enter", "enter")
	cfg := w.Result().Config

	path := t.TempDir() + "/" + config.ConfigFileName
	if err := config.Save(path, &cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	conn, err := loaded.ResolveAlias(ddlcheck.DefaultAlias)
	if err != nil {
		t.Fatalf("connection: %v", err)
	}
	if conn.Host != "db.internal" || conn.Port != ddlcheck.DefaultPort || conn.Password != "pw" {
		t.Errorf("conn = %+v", conn)
	}
}

func TestConfigWizard_OutputDir(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w, _ = pressConfig(t, w, "enter", "n", "enter")
	if w.step != configStepOutputDir {
		t.Fatalf("step = %d, want configStepOutputDir", w.step)
	}
	w, _ = pressConfig(t, w, "r", "e", "p", "o", "r", "t", "s", "/", "enter", "enter")

	if got := w.Result().Config.OutputDir; got != "reports" {
		t.Errorf("output dir = %q, want reports", got)
	}
}

func TestConfigWizard_DefaultOutputDirLeftImplicit(t *testing.T) {
	w := NewConfigWizard(passwordConn(), nil)
	w.outputInput.SetValue(ddlcheck.DefaultOutputDir)
	w, _ = pressConfig(t, w, "enter", "n", "enter", "enter", "enter")

	cfg := w.Result().Config
	if cfg.OutputDir != "" {
		t.Errorf("output dir = %q, want empty", cfg.OutputDir)
	}
	if cfg.OutputDirectory() != ddlcheck.DefaultOutputDir {
		t.Errorf("effective output dir = %q", cfg.OutputDirectory())
	}
}

func TestConfigWizard_OutputDirTabCompletes(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "structures"), 0o755); err != nil {
		t.Fatal(err)
	}

	w := NewConfigWizard(passwordConn(), nil)
	w, _ = pressConfig(t, w, "enter", "n", "enter")
	w.outputInput.SetValue(filepath.Join(root, "str"))
	w, _ = pressConfig(t, w, "tab")

	want := filepath.Join(root, "structures") + string(filepath.Separator)
	if got := w.outputInput.Value(); got != want {
		t.Errorf("completed %q, want %q", got, want)
	}
	if !strings.Contains(w.View(), "tab complete") {
		t.Error("help line not rendered")
	}
}
