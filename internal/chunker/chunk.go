// Package chunker splits source code into semantic chunks using a
// concrete syntax tree: maximal syntactic units (functions, methods,
// classes, impl blocks) kept whole under a size budget, with leading
// comments attached, and a whole-file fallback when no structural
// boundaries exist.
package chunker

import "bytes"

// KindFile is the chunk kind used for the whole-file fallback chunk;
// structural chunks carry the originating CST node type as their kind.
const KindFile = "file"

// Chunk is a semantic slice of a source file
type Chunk struct {
	Kind      string `json:"kind"`       // CST node type, or "file" for the fallback
	Text      string `json:"text"`       // byte-exact slice of the source
	StartLine int    `json:"start_line"` // 0-based
	EndLine   int    `json:"end_line"`   // 0-based, inclusive
}

// countLines returns the number of newline-delimited lines in source,
// not counting a trailing empty line.
func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := bytes.Count(source, []byte("\n"))
	if source[len(source)-1] != '\n' {
		n++
	}
	return n
}
