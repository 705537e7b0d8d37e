// Package input turns command-line inputs into documents ready for
// link extraction.
//
// An input is a file path, a glob pattern, a directory, an http(s) URL,
// or "-" for standard input. Local reads and remote fetches both
// produce a model.Document; the ID of each document is the input text
// that named it, so reports read back in the user's own terms.
package input
