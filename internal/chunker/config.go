package chunker

import (
	"github.com/tildaslashalef/scalpel/internal/parser"
)

// DefaultMaxChars is the default size budget for a single chunk in bytes
const DefaultMaxChars = 1500

// Config configures the chunker
type Config struct {
	// MaxChars is the size budget for a single chunk. A unit larger
	// than this is decomposed into its children; the budget is
	// advisory once no further decomposition is possible.
	MaxChars int

	// Units maps each language to the CST node types treated as
	// atomic units. This is a closed, explicitly constructed set; node
	// types not listed are transparently descended into.
	Units map[parser.Language][]string
}

// DefaultConfig returns a configuration with the default size budget
// and the default per-language unit allow-lists
func DefaultConfig() Config {
	return Config{
		MaxChars: DefaultMaxChars,
		Units:    DefaultUnits(),
	}
}

// DefaultUnits returns the default per-language unit allow-lists
func DefaultUnits() map[parser.Language][]string {
	return map[parser.Language][]string{
		parser.LanguageGo: {
			"function_declaration",
			"method_declaration",
			"type_declaration",
		},
		parser.LanguagePython: {
			"class_definition",
			"function_definition",
			"decorated_definition",
		},
		parser.LanguageRust: {
			"function_item",
			"impl_item",
			"struct_item",
			"enum_item",
			"trait_item",
		},
		parser.LanguageJavaScript: {
			"function_declaration",
			"generator_function_declaration",
			"class_declaration",
			"method_definition",
		},
		parser.LanguageTypeScript: {
			"function_declaration",
			"class_declaration",
			"abstract_class_declaration",
			"method_definition",
			"interface_declaration",
			"type_alias_declaration",
			"enum_declaration",
		},
		parser.LanguageTSX: {
			"function_declaration",
			"class_declaration",
			"method_definition",
			"interface_declaration",
			"type_alias_declaration",
		},
		parser.LanguageJava: {
			"class_declaration",
			"interface_declaration",
			"enum_declaration",
			"method_declaration",
			"constructor_declaration",
		},
		parser.LanguageC: {
			"function_definition",
		},
		parser.LanguageCPP: {
			"function_definition",
			"class_specifier",
		},
	}
}
