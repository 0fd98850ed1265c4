// Package template contains the pure rendering rules for template sources:
// conditional blocks, token substitution, line-ending normalization and
// output path templating. Nothing in this package touches the filesystem,
// so file templates and in-memory snippets share exactly one code path.
package template

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

// DefaultBlockedSuffix is the trailing character stripped from rendered file
// names. Template sources carry it so build tooling ignores them.
const DefaultBlockedSuffix = "_"

// Params maps parameter keys to values. Values are usually strings or bools;
// anything else is rendered with fmt.Sprint.
type Params map[string]any

// Text returns the textual form of a parameter and whether it is present.
func (p Params) Text(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	return toText(v), true
}

// Merge returns a copy of p with extra added. Keys already in p win.
func (p Params) Merge(extra map[string]string) Params {
	out := make(Params, len(p)+len(extra))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range p {
		out[k] = v
	}
	return out
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Block markers. The quantifier is lazy so two adjacent blocks stay separate;
// (?s) lets a block span lines. Nested blocks are not supported.
var (
	ifBlock     = regexp.MustCompile(`(?is)\{\{#if\s+\(eq\s+(\w+)\s+"([^"]+)"\)\}\}(.*?)\{\{/if\}\}`)
	unlessBlock = regexp.MustCompile(`(?is)\{\{#unless\s+\(eq\s+(\w+)\s+"([^"]+)"\)\}\}(.*?)\{\{/unless\}\}`)
)

// EvaluateConditionals resolves every if/unless block in text.
//
// An if block is kept when params[key] exists and equals the literal,
// ignoring case. An unless block is kept when the key is missing or does not
// match. Kept blocks lose their markers; dropped blocks vanish entirely.
func EvaluateConditionals(text string, params Params) string {
	text = replaceBlocks(ifBlock, text, func(key, literal string) bool {
		actual, ok := params.Text(key)
		return ok && strings.EqualFold(actual, literal)
	})
	return replaceBlocks(unlessBlock, text, func(key, literal string) bool {
		actual, ok := params.Text(key)
		return !ok || !strings.EqualFold(actual, literal)
	})
}

func replaceBlocks(re *regexp.Regexp, text string, keep func(key, literal string) bool) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		key := text[m[2]:m[3]]
		literal := text[m[4]:m[5]]
		if keep(key, literal) {
			b.WriteString(text[m[6]:m[7]])
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// Substitute replaces {{Key}} and __Key__ tokens with parameter values.
// Unknown tokens are left untouched and values are never re-scanned.
func Substitute(text string, params Params) string {
	if len(params) == 0 || text == "" {
		return text
	}
	return newReplacer(params).Replace(text)
}

func newReplacer(params Params) *strings.Replacer {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k != "" {
			keys = append(keys, k)
		}
	}
	// Longest keys first so overlapping tokens resolve the same way every run.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*4)
	for _, k := range keys {
		v := toText(params[k])
		pairs = append(pairs, "{{"+k+"}}", v, "__"+k+"__", v)
	}
	return strings.NewReplacer(pairs...)
}

// LineEnding is the canonical line terminator written to rendered output.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

// ParseLineEnding maps a config token ("lf", "crlf") to a LineEnding.
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	default:
		return "", fmt.Errorf("unknown line ending %q (valid: lf, crlf)", s)
	}
}

// NormalizeLineEndings rewrites CRLF, CR and LF terminators to le.
func NormalizeLineEndings(text string, le LineEnding) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if le == CRLF {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	return text
}

// RestoreExtension strips suffix from the last element of a slash path,
// turning "config/appsettings.json_" into "config/appsettings.json".
func RestoreExtension(p, suffix string) string {
	if suffix == "" {
		return p
	}
	dir, base := path.Split(p)
	if len(base) > len(suffix) && strings.HasSuffix(base, suffix) {
		return dir + strings.TrimSuffix(base, suffix)
	}
	return p
}
