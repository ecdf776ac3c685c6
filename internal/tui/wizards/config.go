package wizards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ddlcheck/internal/config"
	"github.com/vvka-141/ddlcheck/internal/tui"
	"github.com/vvka-141/ddlcheck/internal/tui/components"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// ConfigResult holds the result of the alias wizard.
type ConfigResult struct {
	Cancelled bool
	Alias     string
	Config    config.ProjectConfig
}

// ConfigWizard names a tested connection and merges it into a project config.
type ConfigWizard struct {
	step configStep

	connConfig ddlcheck.ConnectionConfig
	existing   config.ProjectConfig

	aliasInput    textinput.Model
	outputInput   textinput.Model
	completer     *components.PathCompleter
	savePassword  bool
	timeout       string
	validationErr string

	result ConfigResult

	keys tui.KeyMap
}

type configStep int

const (
	configStepAlias configStep = iota
	configStepPassword
	configStepTimeout
	configStepOutputDir
	configStepReview
	configStepDone
)

var timeoutChoices = []string{"1m", "5m", "10m", "30m"}

const defaultTimeoutChoice = "5m"

// NewConfigWizard starts from an existing project config, which may be empty.
func NewConfigWizard(conn ddlcheck.ConnectionConfig, existing *config.ProjectConfig) ConfigWizard {
	alias := textinput.New()
	alias.Placeholder = ddlcheck.DefaultAlias
	alias.CharLimit = 64
	alias.Width = 30
	alias.Focus()

	output := textinput.New()
	output.Placeholder = ddlcheck.DefaultOutputDir
	output.CharLimit = 256
	output.Width = 40

	w := ConfigWizard{
		step:        configStepAlias,
		connConfig:  conn,
		aliasInput:  alias,
		outputInput: output,
		completer:   components.NewPathCompleter(true),
		timeout:     defaultTimeoutChoice,
		keys:        tui.DefaultKeyMap(),
	}
	if existing != nil {
		w.existing = *existing
		if existing.Timeout != "" {
			w.timeout = existing.Timeout
		}
		w.outputInput.SetValue(existing.OutputDir)
	}
	return w
}

// Init implements tea.Model.
func (w ConfigWizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (w ConfigWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		switch w.step {
		case configStepAlias:
			w.aliasInput, cmd = w.aliasInput.Update(msg)
		case configStepOutputDir:
			w.outputInput, cmd = w.outputInput.Update(msg)
		}
		return w, cmd
	}

	if keyMsg.String() == "ctrl+c" {
		w.result.Cancelled = true
		return w, tea.Quit
	}

	switch w.step {
	case configStepAlias:
		return w.updateAlias(keyMsg)
	case configStepPassword:
		return w.updatePassword(keyMsg)
	case configStepTimeout:
		return w.updateTimeout(keyMsg)
	case configStepOutputDir:
		return w.updateOutputDir(keyMsg)
	case configStepReview:
		return w.updateReview(keyMsg)
	}
	return w, nil
}

func (w ConfigWizard) alias() string {
	if v := strings.TrimSpace(w.aliasInput.Value()); v != "" {
		return v
	}
	return ddlcheck.DefaultAlias
}

func (w ConfigWizard) updateAlias(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		if strings.ContainsAny(w.alias(), " \t:") {
			w.validationErr = "alias cannot contain spaces or colons"
			return w, nil
		}
		w.validationErr = ""
		if w.connConfig.AuthMethod == ddlcheck.AuthMethodStandard && w.connConfig.Password != "" {
			w.step = configStepPassword
		} else {
			w.step = configStepTimeout
		}
		return w, nil
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	w.validationErr = ""
	var cmd tea.Cmd
	w.aliasInput, cmd = w.aliasInput.Update(msg)
	return w, cmd
}

func (w ConfigWizard) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "y":
		w.savePassword = true
		w.step = configStepTimeout
	case msg.String() == "n", key.Matches(msg, w.keys.Select):
		w.savePassword = false
		w.step = configStepTimeout
	case key.Matches(msg, w.keys.Back):
		w.step = configStepAlias
	}
	return w, nil
}

func (w ConfigWizard) updateTimeout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := indexOf(timeoutChoices, w.timeout)
	switch {
	case key.Matches(msg, w.keys.Up):
		if idx > 0 {
			w.timeout = timeoutChoices[idx-1]
		}
	case key.Matches(msg, w.keys.Down):
		if idx < len(timeoutChoices)-1 {
			w.timeout = timeoutChoices[idx+1]
		}
	case key.Matches(msg, w.keys.Select):
		w.step = configStepOutputDir
		w.outputInput.Focus()
	case key.Matches(msg, w.keys.Back):
		w.step = configStepAlias
	}
	return w, nil
}

func (w ConfigWizard) updateOutputDir(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, w.keys.Tab) {
		w.outputInput.SetValue(w.completer.Next(w.outputInput.Value()))
		w.outputInput.CursorEnd()
		return w, nil
	}
	w.completer.Reset()

	switch {
	case key.Matches(msg, w.keys.Select):
		w.outputInput.Blur()
		w.step = configStepReview
		return w, nil
	case key.Matches(msg, w.keys.Back):
		w.outputInput.Blur()
		w.step = configStepTimeout
		return w, nil
	}
	var cmd tea.Cmd
	w.outputInput, cmd = w.outputInput.Update(msg)
	return w, cmd
}

// outputDir returns the typed directory; the default is left implicit.
func (w ConfigWizard) outputDir() string {
	dir := strings.TrimRight(strings.TrimSpace(w.outputInput.Value()), `/\`)
	if dir == ddlcheck.DefaultOutputDir {
		return ""
	}
	return dir
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func (w ConfigWizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.result.Alias = w.alias()
		w.result.Config = w.merged()
		w.step = configStepDone
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = configStepOutputDir
		w.outputInput.Focus()
	}
	return w, nil
}

// merged returns the existing config with the new alias set.
func (w ConfigWizard) merged() config.ProjectConfig {
	cfg := w.existing
	databases := make(map[string]config.DatabaseConfig, len(cfg.Databases)+1)
	for k, v := range cfg.Databases {
		databases[k] = v
	}
	cfg.Databases = databases
	cfg.SetAlias(w.alias(), config.EntryFrom(w.connConfig, w.savePassword))
	cfg.Timeout = w.timeout
	cfg.OutputDir = w.outputDir()
	return cfg
}

// View implements tea.Model.
func (w ConfigWizard) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("ddlcheck - Save Connection"))
	b.WriteString("\n")
	b.WriteString(tui.SuccessStyle.Render(tui.SymbolCheck + " Connection: " + w.connConfig.Target()))
	b.WriteString("\n\n")

	switch w.step {
	case configStepAlias:
		b.WriteString(tui.SubtitleStyle.Render("Alias name"))
		b.WriteString("\n")
		b.WriteString(tui.FocusedBoxStyle.Render(w.aliasInput.View()))
		b.WriteString("\n")
		if _, exists := w.existing.Databases[w.alias()]; exists {
			b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("alias %q exists and will be replaced", w.alias())))
			b.WriteString("\n")
		}
		if w.validationErr != "" {
			b.WriteString(tui.ErrorStyle.Render("Error: " + w.validationErr))
			b.WriteString("\n")
		}
		b.WriteString(tui.HelpStyle.Render("enter continue • esc cancel"))

	case configStepPassword:
		b.WriteString(tui.SubtitleStyle.Render("Store the password in the config file?"))
		b.WriteString("\n")
		b.WriteString(tui.DescriptionStyle.Render("Without it, set DDLCHECK_PASSWORD or MYSQL_PWD at run time."))
		b.WriteString("\n")
		b.WriteString(tui.HelpStyle.Render("y store • n/enter skip • esc back"))

	case configStepTimeout:
		b.WriteString(tui.SubtitleStyle.Render("Run timeout"))
		b.WriteString("\n")
		for _, t := range timeoutChoices {
			style, symbol := tui.UnselectedStyle, tui.SymbolUnselected
			if t == w.timeout {
				style, symbol = tui.SelectedStyle, tui.SymbolSelected
			}
			b.WriteString("  ")
			b.WriteString(style.Render(symbol + " " + t))
			b.WriteString("\n")
		}
		b.WriteString(tui.HelpStyle.Render("↑/↓ choose • enter continue • esc back"))

	case configStepOutputDir:
		b.WriteString(tui.SubtitleStyle.Render("Output directory for structure files and reports"))
		b.WriteString("\n")
		b.WriteString(tui.FocusedBoxStyle.Render(w.outputInput.View()))
		b.WriteString("\n")
		b.WriteString(tui.HelpStyle.Render("tab complete • enter continue • esc back"))

	case configStepReview:
		b.WriteString(tui.SubtitleStyle.Render("Review"))
		b.WriteString("\n")
		cfg := w.merged()
		preview, _ := yaml.Marshal(&cfg)
		for _, line := range strings.Split(strings.TrimRight(string(preview), "\n"), "\n") {
			b.WriteString(tui.DescriptionStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString(tui.HelpStyle.Render("enter save • esc back"))
	}

	return b.String()
}

// Result returns the wizard result.
func (w ConfigWizard) Result() ConfigResult {
	return w.result
}

// RunConfigWizard runs the alias wizard on the alternate screen.
func RunConfigWizard(conn ddlcheck.ConnectionConfig, existing *config.ProjectConfig) (ConfigResult, error) {
	p := tea.NewProgram(NewConfigWizard(conn, existing), tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return ConfigResult{Cancelled: true}, err
	}
	return model.(ConfigWizard).Result(), nil
}
