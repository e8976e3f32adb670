package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	tstype "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/tildaslashalef/scalpel/internal/loggy"
)

// ErrUnsupportedLanguage is returned when no grammar exists for a language
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Parser produces concrete syntax trees from source bytes
type Parser struct {
	logger *loggy.Logger
}

// NewParser creates a new parser
func NewParser(logger *loggy.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// grammar returns the tree-sitter grammar for a language
func grammar(lang Language) (*sitter.Language, bool) {
	switch lang {
	case LanguageGo:
		return golang.GetLanguage(), true
	case LanguagePython:
		return python.GetLanguage(), true
	case LanguageRust:
		return rust.GetLanguage(), true
	case LanguageJavaScript:
		return javascript.GetLanguage(), true
	case LanguageTypeScript:
		return tstype.GetLanguage(), true
	case LanguageTSX:
		return tsx.GetLanguage(), true
	case LanguageJava:
		return java.GetLanguage(), true
	case LanguageC:
		return tsc.GetLanguage(), true
	case LanguageCPP:
		return cpp.GetLanguage(), true
	default:
		return nil, false
	}
}

// Supported reports whether a grammar exists for the language
func Supported(lang Language) bool {
	_, ok := grammar(lang)
	return ok
}

// Parse builds a CST for the given source. The caller owns the returned
// tree and must Close it when done.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language) (*sitter.Tree, error) {
	language, ok := grammar(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	return tree, nil
}
