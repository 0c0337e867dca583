package lexer

import "github.com/gengjiawen/c-parser/pkg/diag"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent     // main, foo, x
	TokenInt       // 42, 0x2a, 42ul
	TokenFloat     // 1.0, 2.5e3, 1.5f
	TokenCharConst // 'a'
	TokenString    // "hello"

	// Keywords
	TokenInt_     // int
	TokenVoid     // void
	TokenReturn   // return
	TokenIf       // if
	TokenElse     // else
	TokenWhile    // while
	TokenDo       // do
	TokenFor      // for
	TokenBreak    // break
	TokenContinue // continue
	TokenSwitch   // switch
	TokenCase     // case
	TokenDefault  // default
	TokenGoto     // goto
	TokenTypedef  // typedef
	TokenStruct   // struct
	TokenSizeof   // sizeof
	TokenUnion    // union
	TokenEnum     // enum
	TokenStatic   // static
	TokenExtern   // extern
	TokenAuto     // auto
	TokenRegister // register
	TokenConst    // const
	TokenVolatile // volatile
	TokenRestrict // restrict
	TokenInline   // inline
	TokenChar     // char
	TokenShort    // short
	TokenLong     // long
	TokenFloat_   // float
	TokenDouble   // double
	TokenSigned   // signed
	TokenUnsigned // unsigned

	// C11 keywords
	TokenBool         // _Bool
	TokenAtomic       // _Atomic
	TokenThreadLocal  // _Thread_local
	TokenStaticAssert // _Static_assert
	TokenGeneric      // _Generic
	TokenAlignof      // _Alignof
	TokenNoreturn     // _Noreturn

	// GNU keywords
	TokenAttribute // __attribute__
	TokenAsm       // asm, __asm__
	TokenExtension // __extension__
	TokenTypeof    // typeof, __typeof__

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEq        // ==
	TokenNe        // !=
	TokenLt        // <
	TokenLe        // <=
	TokenGt        // >
	TokenGe        // >=
	TokenAnd       // &&
	TokenOr        // ||
	TokenNot       // !
	TokenAmpersand // &
	TokenPipe      // |
	TokenCaret     // ^
	TokenTilde     // ~
	TokenShl       // <<
	TokenShr       // >>
	TokenQuestion  // ?
	TokenColon     // :

	// Compound assignment operators
	TokenPlusAssign    // +=
	TokenMinusAssign   // -=
	TokenStarAssign    // *=
	TokenSlashAssign   // /=
	TokenPercentAssign // %=
	TokenAndAssign     // &=
	TokenOrAssign      // |=
	TokenXorAssign     // ^=
	TokenShlAssign     // <<=
	TokenShrAssign     // >>=

	// Increment/decrement
	TokenIncrement // ++
	TokenDecrement // --

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
	TokenArrow     // ->
	TokenEllipsis  // ...
)

var tokenNames = map[TokenType]string{
	TokenEOF:           "EOF",
	TokenIllegal:       "ILLEGAL",
	TokenIdent:         "IDENT",
	TokenInt:           "INT",
	TokenFloat:         "FLOAT",
	TokenCharConst:     "CHAR",
	TokenString:        "STRING",
	TokenInt_:          "int",
	TokenVoid:          "void",
	TokenReturn:        "return",
	TokenIf:            "if",
	TokenElse:          "else",
	TokenWhile:         "while",
	TokenDo:            "do",
	TokenFor:           "for",
	TokenBreak:         "break",
	TokenContinue:      "continue",
	TokenSwitch:        "switch",
	TokenCase:          "case",
	TokenDefault:       "default",
	TokenGoto:          "goto",
	TokenTypedef:       "typedef",
	TokenStruct:        "struct",
	TokenSizeof:        "sizeof",
	TokenUnion:         "union",
	TokenEnum:          "enum",
	TokenStatic:        "static",
	TokenExtern:        "extern",
	TokenAuto:          "auto",
	TokenRegister:      "register",
	TokenConst:         "const",
	TokenVolatile:      "volatile",
	TokenRestrict:      "restrict",
	TokenInline:        "inline",
	TokenChar:          "char",
	TokenShort:         "short",
	TokenLong:          "long",
	TokenFloat_:        "float",
	TokenDouble:        "double",
	TokenSigned:        "signed",
	TokenUnsigned:      "unsigned",
	TokenBool:          "_Bool",
	TokenAtomic:        "_Atomic",
	TokenThreadLocal:   "_Thread_local",
	TokenStaticAssert:  "_Static_assert",
	TokenGeneric:       "_Generic",
	TokenAlignof:       "_Alignof",
	TokenNoreturn:      "_Noreturn",
	TokenAttribute:     "__attribute__",
	TokenAsm:           "__asm__",
	TokenExtension:     "__extension__",
	TokenTypeof:        "typeof",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenAssign:        "=",
	TokenEq:            "==",
	TokenNe:            "!=",
	TokenLt:            "<",
	TokenLe:            "<=",
	TokenGt:            ">",
	TokenGe:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenAmpersand:     "&",
	TokenPipe:          "|",
	TokenCaret:         "^",
	TokenTilde:         "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenArrow:         "->",
	TokenEllipsis:      "...",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token. For numeric, character and string
// literals the decoded value and any suffix characters are recorded
// alongside the raw lexeme. Tokens are immutable once produced.
type Token struct {
	Type    TokenType
	Literal string // raw lexeme
	Line    int
	Column  int

	IntVal   uint64 // decoded value for INT and CHAR tokens
	FloatVal float64
	StrVal   string // escape-decoded contents for STRING tokens
	Suffix   string // suffix characters as written (u, l, ll, f, ...)
}

// Pos returns the token's source position.
func (t Token) Pos() diag.Pos {
	return diag.Pos{Line: t.Line, Column: t.Column}
}

// keywords maps keyword strings to token types. GNU alternate spellings
// (__signed__, __volatile__, ...) canonicalize to the plain keyword token;
// the raw spelling stays in Token.Literal.
var keywords = map[string]TokenType{
	"int":            TokenInt_,
	"void":           TokenVoid,
	"return":         TokenReturn,
	"if":             TokenIf,
	"else":           TokenElse,
	"while":          TokenWhile,
	"do":             TokenDo,
	"for":            TokenFor,
	"break":          TokenBreak,
	"continue":       TokenContinue,
	"switch":         TokenSwitch,
	"case":           TokenCase,
	"default":        TokenDefault,
	"goto":           TokenGoto,
	"typedef":        TokenTypedef,
	"struct":         TokenStruct,
	"sizeof":         TokenSizeof,
	"union":          TokenUnion,
	"enum":           TokenEnum,
	"static":         TokenStatic,
	"extern":         TokenExtern,
	"auto":           TokenAuto,
	"register":       TokenRegister,
	"const":          TokenConst,
	"volatile":       TokenVolatile,
	"restrict":       TokenRestrict,
	"inline":         TokenInline,
	"char":           TokenChar,
	"short":          TokenShort,
	"long":           TokenLong,
	"float":          TokenFloat_,
	"double":         TokenDouble,
	"signed":         TokenSigned,
	"unsigned":       TokenUnsigned,
	"_Bool":          TokenBool,
	"_Atomic":        TokenAtomic,
	"_Thread_local":  TokenThreadLocal,
	"_Static_assert": TokenStaticAssert,
	"_Generic":       TokenGeneric,
	"_Alignof":       TokenAlignof,
	"_Noreturn":      TokenNoreturn,
	"__attribute__":  TokenAttribute,
	"asm":            TokenAsm,
	"__asm__":        TokenAsm,
	"__asm":          TokenAsm,
	"__extension__":  TokenExtension,
	"typeof":         TokenTypeof,
	"__typeof__":     TokenTypeof,
	"__signed__":     TokenSigned,
	"__volatile__":   TokenVolatile,
	"__inline__":     TokenInline,
	"__inline":       TokenInline,
	"__restrict":     TokenRestrict,
	"__restrict__":   TokenRestrict,
	"__const__":      TokenConst,
	"__alignof__":    TokenAlignof,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
