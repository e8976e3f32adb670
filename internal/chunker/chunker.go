package chunker

import (
	"bytes"
	"context"
	"errors"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tildaslashalef/scalpel/internal/loggy"
	"github.com/tildaslashalef/scalpel/internal/parser"
)

// Chunker decomposes parsed source files into semantic chunks. It holds
// no per-file state and is safe for concurrent use across files.
type Chunker struct {
	logger   *loggy.Logger
	parser   *parser.Parser
	maxChars int
	units    map[parser.Language]map[string]bool
}

// NewChunker creates a new chunker
func NewChunker(cfg Config, logger *loggy.Logger) *Chunker {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	if cfg.Units == nil {
		cfg.Units = DefaultUnits()
	}

	units := make(map[parser.Language]map[string]bool, len(cfg.Units))
	for lang, types := range cfg.Units {
		set := make(map[string]bool, len(types))
		for _, t := range types {
			set[t] = true
		}
		units[lang] = set
	}

	return &Chunker{
		logger:   logger,
		parser:   parser.NewParser(logger),
		maxChars: cfg.MaxChars,
		units:    units,
	}
}

// MaxChars returns the configured size budget
func (c *Chunker) MaxChars() int {
	return c.maxChars
}

// IsChunkUnit reports whether a CST node type is an atomic unit for the
// given language
func (c *Chunker) IsChunkUnit(nodeType string, lang parser.Language) bool {
	return c.units[lang][nodeType]
}

// ChunkSource splits source into semantic chunks. Chunks are returned in
// document order; an unsupported language or a parse failure degrades to
// an empty result rather than an error, leaving the caller free to apply
// a different chunking strategy.
func (c *Chunker) ChunkSource(ctx context.Context, source []byte, lang parser.Language) []Chunk {
	tree, err := c.parser.Parse(ctx, source, lang)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedLanguage) {
			c.logger.Debug("No grammar for language", "language", lang)
		} else {
			c.logger.Warn("Parse failed", "language", lang, "error", err)
		}
		return nil
	}
	defer tree.Close()

	chunks := c.decompose(tree.RootNode(), lang, source)

	// Flat scripts with no recognized unit types still produce output:
	// the whole file becomes a single chunk
	if len(chunks) == 0 {
		return fallback(source)
	}

	return chunks
}

// decompose walks the subtree rooted at node depth-first in document
// order. A unit within budget is emitted as one chunk and its subtree
// absorbed; an oversized unit is split into the chunks of its children.
// A unit whose children decompose into nothing is emitted whole - the
// budget is advisory, content is never truncated.
func (c *Chunker) decompose(node *sitter.Node, lang parser.Language, source []byte) []Chunk {
	if node == nil {
		return nil
	}

	if c.units[lang][node.Type()] {
		start := effectiveStart(node)
		end := node.EndByte()
		text := source[start:end]

		if len(text) <= c.maxChars {
			return []Chunk{{
				Kind:      node.Type(),
				Text:      string(text),
				StartLine: int(node.StartPoint().Row),
				EndLine:   int(node.EndPoint().Row),
			}}
		}

		var chunks []Chunk
		for i := 0; i < int(node.ChildCount()); i++ {
			chunks = append(chunks, c.decompose(node.Child(i), lang, source)...)
		}
		if len(chunks) == 0 {
			return []Chunk{{
				Kind:      node.Type(),
				Text:      string(text),
				StartLine: int(node.StartPoint().Row),
				EndLine:   int(node.EndPoint().Row),
			}}
		}
		return chunks
	}

	var chunks []Chunk
	for i := 0; i < int(node.ChildCount()); i++ {
		chunks = append(chunks, c.decompose(node.Child(i), lang, source)...)
	}
	return chunks
}

// effectiveStart extends a node's start boundary backward across an
// immediately preceding comment sibling, so doc-comments travel with the
// unit they describe. Only a single sibling is considered.
func effectiveStart(node *sitter.Node) uint32 {
	prev := node.PrevSibling()
	if prev != nil && isCommentType(prev.Type()) {
		return prev.StartByte()
	}
	return node.StartByte()
}

// isCommentType matches the comment node types across grammars
// ("comment", "line_comment", "block_comment", ...)
func isCommentType(nodeType string) bool {
	return strings.Contains(nodeType, "comment")
}

// fallback produces a single whole-file chunk for non-blank source, or
// nothing for a blank file
func fallback(source []byte) []Chunk {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil
	}
	return []Chunk{{
		Kind:      KindFile,
		Text:      string(source),
		StartLine: 0,
		EndLine:   countLines(source),
	}}
}
