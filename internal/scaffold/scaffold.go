package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/vvka-141/ddlcheck/internal/config"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

//go:embed all:templates
var templatesFS embed.FS

// DefaultTemplate is used when init is run without --template.
const DefaultTemplate = "basic"

// Scaffolder creates a new project directory from an embedded template.
type Scaffolder struct {
	logger ddlcheck.Logger
}

// NewScaffolder returns a Scaffolder that reports created files at verbose level.
func NewScaffolder(logger ddlcheck.Logger) *Scaffolder {
	return &Scaffolder{logger: logger}
}

// CreateProject copies templateName into targetPath, which must be missing
// or empty apart from a config file and .env; those are kept as they are.
// {{PROJECT_NAME}} and {{DATABASE_NAME}} are substituted in every file.
func (s *Scaffolder) CreateProject(projectName, templateName, targetPath string) error {
	root := path.Join("templates", templateName)
	if _, err := fs.Stat(templatesFS, root); err != nil {
		available, _ := ListTemplates()
		return fmt.Errorf("template %q not found (available: %s): %w",
			templateName, strings.Join(available, ", "), ddlcheck.ErrConfigurationInvalid)
	}

	empty, err := isDirectoryEmpty(targetPath)
	if err != nil {
		return err
	}
	if !empty {
		return fmt.Errorf("target directory %s is not empty; choose a new directory: %w",
			targetPath, ddlcheck.ErrConfigurationInvalid)
	}

	vars := strings.NewReplacer(
		"{{PROJECT_NAME}}", projectName,
		"{{DATABASE_NAME}}", DatabaseName(projectName),
	)
	s.logger.Verbose("Creating project %q at %s from template %q", projectName, targetPath, templateName)

	return fs.WalkDir(templatesFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		dst := filepath.Join(targetPath, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		if _, err := os.Stat(dst); err == nil {
			s.logger.Verbose("  %s (kept existing)", rel)
			return nil
		}
		content, err := templatesFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read template %s: %w", p, err)
		}
		s.logger.Verbose("  %s", rel)
		if err := os.WriteFile(dst, []byte(vars.Replace(string(content))), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		return nil
	})
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// DatabaseName turns a project name into a MySQL schema name: runs of
// characters outside [A-Za-z0-9_] become one underscore and the result is
// lowercased.
func DatabaseName(projectName string) string {
	name := strings.Trim(nonIdentifier.ReplaceAllString(projectName, "_"), "_")
	if name == "" {
		return "app"
	}
	return strings.ToLower(name)
}

// ListTemplates returns the embedded template names, sorted.
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// isDirectoryEmpty reports whether p is missing or holds nothing but files
// ddlcheck itself manages: a config file and .env.
func isDirectoryEmpty(p string) (bool, error) {
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", p, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s exists and is not a directory: %w", p, ddlcheck.ErrConfigurationInvalid)
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isManagedFile(e.Name()) {
			return false, nil
		}
	}
	return true, nil
}

func isManagedFile(name string) bool {
	return name == ".env" || slices.Contains(config.ConfigFileNames, name)
}

// BuildFileTree renders the files under root as an indented tree.
func BuildFileTree(root string) (string, error) {
	var sb strings.Builder
	display, err := filepath.Abs(root)
	if err != nil {
		display = root
	}
	sb.WriteString(display + string(filepath.Separator) + "\n")
	if err := writeTree(&sb, root, ""); err != nil {
		return "", fmt.Errorf("build file tree: %w", err)
	}
	return sb.String(), nil
}

func writeTree(sb *strings.Builder, dir, indent string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for i, e := range entries {
		branch, next := "├── ", "│   "
		if i == len(entries)-1 {
			branch, next = "└── ", "    "
		}
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		sb.WriteString(indent + branch + name + "\n")
		if e.IsDir() {
			if err := writeTree(sb, filepath.Join(dir, e.Name()), indent+next); err != nil {
				return err
			}
		}
	}
	return nil
}
