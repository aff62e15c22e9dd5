// Package errors provides structured, actionable errors for lfnd.
//
// Errors carry a stable code (e.g. "L010") that maps to a category, a short
// message, a longer explanation and an optional hint. The trie itself never
// fails; these errors come from configuration, manifest loading, remote
// storage and the command line.
//
// # Error Categories
//
//   - config: lfnd.json could not be read or is invalid
//   - manifest: a route manifest is malformed
//   - storage: a manifest source (file, S3) could not be read
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("L010").
//	    WithDetail(`route #3 has an empty "name"`).
//	    Wrap(cause)
//
//	errors.PrintError(os.Stderr, err)
//	// ERROR L010: Invalid route manifest
//	//
//	//   route #3 has an empty "name"
package errors
