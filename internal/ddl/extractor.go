package ddl

import (
	"fmt"

	"github.com/vvka-141/ddlcheck/internal/checksum"
	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/internal/files/scanner"
	"github.com/vvka-141/ddlcheck/internal/preprocessor"
	"github.com/vvka-141/ddlcheck/internal/schema"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

type options struct {
	fullTypes bool
}

// Option configures parsing.
type Option func(*options)

// WithFullTypes keeps type modifiers such as UNSIGNED or ZEROFILL in the
// stored type. By default only the type word and its parameter group are kept.
func WithFullTypes() Option {
	return func(o *options) { o.fullTypes = true }
}

// Result is the outcome of parsing one script.
type Result struct {
	Tree        *schema.Tree
	Diagnostics []Diagnostic

	// Statements is the number of non-empty statements seen, recognized or not.
	Statements int

	// Source is set when the script came from a file.
	Source *ddlcheck.SourceFile
}

// Parse extracts the schema declared by sql. It never fails; anomalies are
// returned as diagnostics next to the best-effort tree.
func Parse(sql string, opts ...Option) *Result {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	pre := preprocessor.NewPipeline().Process(sql)
	p := newParser(o)
	if pre.UnterminatedComment {
		p.report(DiagUnterminatedComment, 0, "", "block comment is not closed; text after /* ignored")
	}
	for _, st := range pre.Statements {
		p.statement(st)
	}

	return &Result{
		Tree:        p.tree,
		Diagnostics: p.diags,
		Statements:  len(pre.Statements),
	}
}

// Extractor parses script files through a filesystem provider.
type Extractor struct {
	scanner *scanner.Scanner
	opts    []Option
}

// NewExtractor creates an Extractor reading from fsProvider.
func NewExtractor(fsProvider filesystem.FileSystemProvider, opts ...Option) *Extractor {
	return &Extractor{
		scanner: scanner.NewScannerWithFS(checksum.New(), fsProvider),
		opts:    opts,
	}
}

// ParseFile parses one script. A missing or unreadable file is reported
// as ddlcheck.ErrInputUnavailable.
func (e *Extractor) ParseFile(path string) (*Result, error) {
	src, err := e.scanner.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.parseSource(src), nil
}

// ParseDir parses every .sql file under dir, one independent result per
// file, in path order.
func (e *Extractor) ParseDir(dir string) ([]*Result, error) {
	scan, err := e.scanner.ScanDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	results := make([]*Result, 0, len(scan.Files))
	for _, src := range scan.Files {
		results = append(results, e.parseSource(src))
	}
	return results, nil
}

func (e *Extractor) parseSource(src ddlcheck.SourceFile) *Result {
	res := Parse(src.Content, e.opts...)
	res.Source = &src
	return res
}

// Merge combines the trees of several results in order.
func Merge(results []*Result) *schema.Tree {
	tree := schema.New()
	for _, r := range results {
		tree.Merge(r.Tree)
	}
	return tree
}
