// Package parser provides CST parsing and language detection for the Scalpel application
package parser

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/tildaslashalef/scalpel/internal/loggy"
)

// Language identifies a grammar supported by the parser
type Language string

// Languages with grammar support
const (
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageJava       Language = "java"
	LanguageC          Language = "c"
	LanguageCPP        Language = "cpp"
)

// extLanguages maps file extensions to their language identifier
var extLanguages = map[string]Language{
	".go":   LanguageGo,
	".py":   LanguagePython,
	".pyw":  LanguagePython,
	".rs":   LanguageRust,
	".js":   LanguageJavaScript,
	".jsx":  LanguageJavaScript,
	".mjs":  LanguageJavaScript,
	".ts":   LanguageTypeScript,
	".tsx":  LanguageTSX,
	".java": LanguageJava,
	".c":    LanguageC,
	".h":    LanguageC,
	".cpp":  LanguageCPP,
	".cc":   LanguageCPP,
	".cxx":  LanguageCPP,
	".hpp":  LanguageCPP,
}

// enryLanguages maps go-enry language names to our identifiers, for
// files the extension map misses (extensionless scripts, unusual names)
var enryLanguages = map[string]Language{
	"Go":         LanguageGo,
	"Python":     LanguagePython,
	"Rust":       LanguageRust,
	"JavaScript": LanguageJavaScript,
	"TypeScript": LanguageTypeScript,
	"TSX":        LanguageTSX,
	"Java":       LanguageJava,
	"C":          LanguageC,
	"C++":        LanguageCPP,
}

// LanguageForExtension returns the language for a file extension
// (including the leading dot), or false when none is mapped
func LanguageForExtension(ext string) (Language, bool) {
	lang, ok := extLanguages[strings.ToLower(ext)]
	return lang, ok
}

// LanguageDetector detects the programming language of a file
type LanguageDetector struct {
	logger *loggy.Logger
}

// NewLanguageDetector creates a new language detector
func NewLanguageDetector(logger *loggy.Logger) *LanguageDetector {
	return &LanguageDetector{
		logger: logger,
	}
}

// DetectLanguage determines the language of a file from its path and
// content. The static extension map wins; enry's content-based detection
// is the fallback. The boolean result is false when the file belongs to
// no supported language.
func (d *LanguageDetector) DetectLanguage(path string, content []byte) (Language, bool) {
	if lang, ok := LanguageForExtension(filepath.Ext(path)); ok {
		return lang, true
	}

	name := enry.GetLanguage(filepath.Base(path), content)
	if lang, ok := enryLanguages[name]; ok {
		d.logger.Debug("Language detected by content", "path", path, "language", lang)
		return lang, true
	}

	return "", false
}

// IsVendorFile checks if a file is in a vendored path
func (d *LanguageDetector) IsVendorFile(path string) bool {
	return enry.IsVendor(path)
}

// IsBinaryFile checks if file content looks binary
func (d *LanguageDetector) IsBinaryFile(content []byte) bool {
	return enry.IsBinary(content)
}

// IsGeneratedFile checks if a file appears to be machine generated
func (d *LanguageDetector) IsGeneratedFile(path string, content []byte) bool {
	return enry.IsGenerated(path, content)
}
