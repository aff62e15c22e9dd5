package qname

import "strings"

// Root is the canonical name of the trie root.
const Root = "/"

// ParamPrefix marks a parametric segment (":id").
const ParamPrefix = ':'

// Clean returns the canonical form of a qualified name.
//
// The steps run in a fixed order: an empty name becomes "/", the first
// backslash becomes "/", a leading "/" is added when missing, and a single
// trailing "/" is dropped unless the name is exactly "/".
func Clean(name string) string {
	if name == "" {
		name = Root
	}

	name = strings.Replace(name, `\`, "/", 1)

	if name[0] != '/' {
		name = "/" + name
	}

	if len(name) > 1 && name[len(name)-1] == '/' {
		name = name[:len(name)-1]
	}

	return name
}

// Segments cleans name and returns its non-empty segments in order.
// Doubled and leading slashes produce empty segments, which are skipped.
func Segments(name string) []string {
	fragments := strings.Split(Clean(name), "/")
	segments := fragments[:0]
	for _, f := range fragments {
		if f == "" {
			continue
		}
		segments = append(segments, f)
	}
	return segments
}

// IsParam reports whether segment is parametric.
func IsParam(segment string) bool {
	return segment != "" && segment[0] == ParamPrefix
}

// ParamName returns the parameter name bound by a parametric segment.
func ParamName(segment string) string {
	if !IsParam(segment) {
		return ""
	}
	return segment[1:]
}

// SplitPathAndQuery strips the query string and fragment from a location,
// returning the path and the raw query without the leading "?".
// The trie never sees either; adapters call this before dispatching.
func SplitPathAndQuery(location string) (path, query string) {
	location, _, _ = strings.Cut(location, "#")
	path, query, _ = strings.Cut(location, "?")
	return path, query
}
