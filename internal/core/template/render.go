package template

import (
	"fmt"
	"sort"
)

// Options controls output normalization.
type Options struct {
	LineEnding    LineEnding
	BlockedSuffix string
}

// DefaultOptions renders LF output and strips a trailing "_" from file names.
func DefaultOptions() Options {
	return Options{LineEnding: LF, BlockedSuffix: DefaultBlockedSuffix}
}

// Source is one template file, addressed by its slash-separated path relative
// to the slice root.
type Source struct {
	RelativePath string
	Content      string
}

// Text renders a single piece of template text: conditionals first, then
// tokens, then line endings.
func Text(text string, params Params, opts Options) string {
	return NormalizeLineEndings(Substitute(EvaluateConditionals(text, params), params), opts.LineEnding)
}

// RenderPath substitutes tokens in a relative output path and restores the
// real extension of the final element.
func RenderPath(rel string, params Params, opts Options) string {
	return RestoreExtension(Substitute(rel, params), opts.BlockedSuffix)
}

// RenderFiles renders every source and returns rendered content keyed by the
// rendered relative path. Two sources rendering to the same path is an error.
func RenderFiles(sources []Source, params Params, opts Options) (map[string]string, error) {
	out := make(map[string]string, len(sources))
	origin := make(map[string]string, len(sources))
	for _, src := range sources {
		p := RenderPath(src.RelativePath, params, opts)
		if prev, ok := origin[p]; ok {
			return nil, fmt.Errorf("templates %q and %q both render to %q", prev, src.RelativePath, p)
		}
		origin[p] = src.RelativePath
		out[p] = Text(src.Content, params, opts)
	}
	return out, nil
}

// SortedPaths returns the keys of a rendered file map in lexical order.
func SortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
