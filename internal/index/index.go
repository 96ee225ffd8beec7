// Package index reads and writes the reading-log index (README.md).
//
// Entry lines look like:
//
//	1. 2020/05/01 - [Clean Code](2020/book1/README.md) - R. Martin
//
// Every other line is ignored by the parser and is not reproduced by the writer.
package index

const (
	// SourceFile is the index read from the repository root.
	SourceFile = "README.md"
	// OutputFile receives the rewritten index, entry lines only.
	OutputFile = "newREADME_IndexOnly.md"

	separator  = " - "
	itemPrefix = "1. "
	lineEnd    = "\r\n"
)
