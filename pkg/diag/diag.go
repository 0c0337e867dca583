// Package diag defines positioned diagnostics shared by the lexer and parser.
package diag

import "fmt"

// Pos is a source position (1-based line, 1-based column).
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind identifies a diagnostic category.
type Kind int

const (
	// Lexical errors
	UnterminatedString Kind = iota
	UnterminatedComment
	InvalidEscape
	InvalidNumericLiteral

	// Grammar errors
	UnexpectedToken
	MalformedDeclarator
	UnknownTypeName
	DuplicateMember
	InvalidBitfieldWidth
	InvalidQualifierPlacement
	DuplicateGenericDefault
	NestingTooDeep
	UndefinedLabel

	// Strict-mode rejection of GNU extension nodes
	ExtensionUsed
)

var kindNames = map[Kind]string{
	UnterminatedString:        "UnterminatedString",
	UnterminatedComment:       "UnterminatedComment",
	InvalidEscape:             "InvalidEscape",
	InvalidNumericLiteral:     "InvalidNumericLiteral",
	UnexpectedToken:           "UnexpectedToken",
	MalformedDeclarator:       "MalformedDeclarator",
	UnknownTypeName:           "UnknownTypeName",
	DuplicateMember:           "DuplicateMember",
	InvalidBitfieldWidth:      "InvalidBitfieldWidth",
	InvalidQualifierPlacement: "InvalidQualifierPlacement",
	DuplicateGenericDefault:   "DuplicateGenericDefault",
	NestingTooDeep:            "NestingTooDeep",
	UndefinedLabel:            "UndefinedLabel",
	ExtensionUsed:             "ExtensionUsed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsLexical reports whether the kind describes a token-level error
// (the LexError class) as opposed to a grammar error (ParseError).
func (k Kind) IsLexical() bool {
	return k <= InvalidNumericLiteral
}

// Class returns the error-class name for the kind.
func (k Kind) Class() string {
	if k.IsLexical() {
		return "LexError"
	}
	return "ParseError"
}

// Diagnostic is one positioned error record.
type Diagnostic struct {
	Pos  Pos
	Kind Kind
	Msg  string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d, col %d: %s: %s", d.Pos.Line, d.Pos.Column, d.Kind, d.Msg)
}

// Errorf builds a diagnostic with a formatted message.
func Errorf(pos Pos, kind Kind, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Pos: pos, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
