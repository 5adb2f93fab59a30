package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/loom-idl/loom/compiler/errors"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level       ErrorLevel
	Context     string
	Problem     string
	Suggestions []string
	NoColor     bool
}

// FormatError creates a standardized error message with suggestions
//
// Example output:
//
//	❌ DERIVATION FAILED: shard
//	   [DRV002] shard: wire key "id" declared twice
//
//	   → Rename one of the fields or set a key attribute
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	b.WriteString(headerColor.Sprintf("%s %s", symbol, opts.Context))
	b.WriteString("\n")
	if opts.Problem != "" {
		b.WriteString(bodyColor.Sprintf("   %s", opts.Problem))
		b.WriteString("\n")
	}
	for _, s := range opts.Suggestions {
		b.WriteString(fmt.Sprintf("\n   → %s", s))
	}
	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
	}

	return b.String()
}

// PrintDeriveError writes a derivation failure to w, with a per-code hint.
func PrintDeriveError(w io.Writer, err *errors.DeriveError, noColor bool) {
	var suggestions []string
	switch err.Code {
	case errors.CodeDuplicateKey:
		suggestions = append(suggestions, "Rename one of the declarations or set a key/tag attribute")
	case errors.CodeUnknownReference:
		suggestions = append(suggestions, "Derive the referenced definition in the same group")
	case errors.CodeUnboundVariable:
		suggestions = append(suggestions, "Add the variable to the definition's params")
	}
	level := ErrorLevelError
	if err.Severity == errors.SeverityWarning {
		level = ErrorLevelWarning
	}
	fmt.Fprintln(w, FormatError(ErrorOptions{
		Level:       level,
		Context:     fmt.Sprintf("DERIVATION FAILED: %s", err.Definition),
		Problem:     err.Error(),
		Suggestions: suggestions,
		NoColor:     noColor,
	}))
}
