// Package qname canonicalizes qualified names before they are used as trie keys.
//
// A qualified name is a slash-delimited string such as "/base/:param/leaf".
// Clean corrects a few common mistakes (missing leading slash, trailing
// slash, an empty name, a single Windows-style separator) and never fails:
//
//	qname.Clean("")        // "/"
//	qname.Clean("one/")    // "/one"
//	qname.Clean("a\\b")    // "/a/b"
//	qname.Clean("a\\b\\c") // "/a/b\\c" (only the first backslash is replaced)
//
// Only the first backslash is rewritten. Callers that may receive names with
// several backslashes must convert them before calling Clean. For inputs with
// at most one backslash Clean is idempotent.
package qname
