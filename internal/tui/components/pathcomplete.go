package components

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// PathCompleter completes a path typed into a text input. Repeated calls
// with the same directory cycle through the candidates; Reset starts over.
type PathCompleter struct {
	dirsOnly  bool
	dir       string
	matches   []string
	pos       int
	completed bool
}

// NewPathCompleter returns a completer. With dirsOnly set, files are skipped.
func NewPathCompleter(dirsOnly bool) *PathCompleter {
	return &PathCompleter{dirsOnly: dirsOnly}
}

// Next returns the completion for input. The first call extends input to
// the longest prefix shared by all candidates when that adds anything;
// later calls walk the candidates in order.
func (c *PathCompleter) Next(input string) string {
	dir, prefix := splitPath(input)

	if !c.completed || dir != c.dir {
		c.dir = dir
		c.matches = c.candidates(dir, prefix)
		c.pos = 0
		c.completed = true

		switch len(c.matches) {
		case 0:
			return input
		case 1:
			return c.render(c.matches[0])
		}
		if shared := filepath.Join(dir, commonPrefix(c.matches)); len(shared) > len(input) {
			return shared
		}
		return c.render(c.matches[0])
	}

	if len(c.matches) == 0 {
		return input
	}
	c.pos = (c.pos + 1) % len(c.matches)
	return c.render(c.matches[c.pos])
}

// Reset drops the cycle state; call it on any key other than Tab.
func (c *PathCompleter) Reset() {
	c.completed = false
	c.matches = nil
	c.pos = 0
	c.dir = ""
}

func (c *PathCompleter) candidates(dir, prefix string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if c.dirsOnly && !e.IsDir() {
			continue
		}
		if hasPrefixFold(e.Name(), prefix) {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out
}

// render joins name to the current directory; directories get a trailing
// separator so the next Tab descends into them.
func (c *PathCompleter) render(name string) string {
	p := filepath.Join(c.dir, name)
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		p += string(filepath.Separator)
	}
	return p
}

// splitPath separates the directory to list from the name prefix typed so
// far. "out" lists "." for "out"; "reports/" lists "reports" for "".
func splitPath(input string) (dir, prefix string) {
	if input == "" || input == "." {
		return ".", ""
	}
	if strings.HasSuffix(input, "/") || strings.HasSuffix(input, string(filepath.Separator)) {
		return strings.TrimRight(input, `/\`), ""
	}
	return filepath.Dir(input), filepath.Base(input)
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// commonPrefix returns the case-insensitive common prefix, spelled as in
// the first name.
func commonPrefix(names []string) string {
	first := names[0]
	n := len(first)
	for _, name := range names[1:] {
		i := 0
		for i < n && i < len(name) && strings.EqualFold(first[i:i+1], name[i:i+1]) {
			i++
		}
		n = i
	}
	return first[:n]
}
