package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/vvka-141/ddlcheck/internal/validator"
)

// TimeLayout formats the run timestamp in report headers.
const TimeLayout = "2006-01-02 15:04:05"

const (
	markOK   = "✅"
	markFail = "❌"
	markWarn = "⚠️"
)

// Source records a parsed script for the provenance block.
type Source struct {
	Path     string
	Checksum string
}

// Options adds optional content to a markdown report.
type Options struct {
	// Sources are listed in the header when the tree came from SQL files.
	Sources []Source

	// Location sets the zone of the header timestamp. Defaults to time.Local.
	Location *time.Location
}

var statusLabels = map[validator.Status]string{
	validator.Match:             "一致",
	validator.Mismatch:          "类型不匹配",
	validator.ColumnMissing:     "字段不存在",
	validator.TableMissing:      "表不存在",
	validator.DatabaseMissing:   "数据库不存在",
	validator.ValidationAborted: "校验出错",
}

// Label returns the report wording for a status.
func Label(s validator.Status) string {
	return statusLabels[s]
}

// WriteMarkdown renders summary as a markdown document.
func WriteMarkdown(w io.Writer, summary *validator.Summary, opts Options) error {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	bw := bufio.NewWriter(w)
	md := &mdWriter{w: bw}

	md.printf("# 数据库结构校验报告\n\n")
	md.printf("**校验时间**: %s\n", summary.StartedAt.In(loc).Format(TimeLayout))
	md.printf("**数据库地址**: %s\n", summary.Target)
	md.printf("**用户名**: %s\n", summary.Principal)
	if summary.RunID != "" {
		md.printf("**运行编号**: %s\n", summary.RunID)
	}
	for _, src := range opts.Sources {
		md.printf("**来源文件**: %s (sha256: %s)\n", src.Path, src.Checksum)
	}
	md.printf("\n")

	for _, db := range summary.Databases {
		md.database(db)
	}

	md.counts(summary.Counts())
	md.printf("\n---\n*报告生成完成*")

	if md.err != nil {
		return md.err
	}
	return bw.Flush()
}

type mdWriter struct {
	w   io.Writer
	err error
}

func (m *mdWriter) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

func (m *mdWriter) database(db validator.DatabaseResult) {
	switch db.Status {
	case validator.ValidationAborted:
		m.printf("## 数据库: %s %s\n\n", db.Name, markFail)
		m.printf("*校验过程中出错: %v*\n\n", db.Err)
		return
	case validator.DatabaseMissing:
		m.printf("## 数据库: %s %s\n\n", db.Name, markFail)
		m.printf("*数据库不存在*\n\n")
	default:
		m.printf("## 数据库: %s %s\n\n", db.Name, markOK)
	}

	for _, t := range db.Tables {
		m.table(t)
	}
}

func (m *mdWriter) table(t validator.TableResult) {
	switch t.Status {
	case validator.ValidationAborted:
		m.printf("### 表: %s %s\n\n", t.Name, markFail)
		m.printf("*校验过程中出错: %v*\n\n", t.Err)
		return
	case validator.TableMissing, validator.DatabaseMissing:
		m.printf("### 表: %s %s\n\n", t.Name, markFail)
		m.printf("| 字段名 | 预期类型 | 状态 |\n")
		m.printf("|-------|---------|------|\n")
		for _, c := range t.Columns {
			m.printf("| `%s` | `%s` | %s %s |\n", c.Name, c.Expected, markFail, Label(c.Status))
		}
		m.printf("\n")
		return
	}

	m.printf("### 表: %s %s\n\n", t.Name, markOK)
	m.printf("| 字段名 | 预期类型 | 实际类型 | 状态 |\n")
	m.printf("|-------|---------|---------|------|\n")
	for _, c := range t.Columns {
		switch c.Status {
		case validator.ColumnMissing:
			m.printf("| `%s` | `%s` | - | %s %s |\n", c.Name, c.Expected, markFail, Label(c.Status))
		case validator.Match:
			m.printf("| `%s` | `%s` | `%s` | %s |\n", c.Name, c.Expected, c.Actual, markOK)
		default:
			m.printf("| `%s` | `%s` | `%s` | %s %s |\n", c.Name, c.Expected, c.Actual, markWarn, Label(c.Status))
		}
	}
	m.printf("\n")
}

func (m *mdWriter) counts(counts map[validator.Status]int) {
	m.printf("## 汇总\n\n")
	m.printf("| 状态 | 数量 |\n")
	m.printf("|------|------|\n")
	for _, s := range validator.Statuses {
		m.printf("| %s | %d |\n", Label(s), counts[s])
	}
}
