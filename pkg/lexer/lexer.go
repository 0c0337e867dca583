// Package lexer tokenizes preprocessed C source text.
package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gengjiawen/c-parser/pkg/diag"
)

// Lexer tokenizes C source code. Malformed input produces an ILLEGAL token
// plus a recorded diagnostic, then lexing resumes at the next whitespace so
// one pass can collect every lexical error.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int
	errs    []diag.Diagnostic
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize runs the lexer over the whole input and returns the token
// sequence (ending with an EOF token) and any lexical diagnostics.
func Tokenize(input string) ([]Token, []diag.Diagnostic) {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return toks, l.Errors()
}

// Errors returns the lexical diagnostics recorded so far, in source order.
func (l *Lexer) Errors() []diag.Diagnostic {
	return l.errs
}

func (l *Lexer) addError(pos diag.Pos, kind diag.Kind, format string, args ...interface{}) {
	l.errs = append(l.errs, diag.Errorf(pos, kind, format, args...))
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) peekCharAt(n int) byte {
	if l.readPos+n-1 >= len(l.input) {
		return 0
	}
	return l.input[l.readPos+n-1]
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		return tok
	case '+':
		switch l.peekChar() {
		case '+':
			tok = l.twoCharToken(TokenIncrement, "++")
		case '=':
			tok = l.twoCharToken(TokenPlusAssign, "+=")
		default:
			tok = l.newToken(TokenPlus, l.ch)
		}
	case '-':
		switch l.peekChar() {
		case '>':
			tok = l.twoCharToken(TokenArrow, "->")
		case '-':
			tok = l.twoCharToken(TokenDecrement, "--")
		case '=':
			tok = l.twoCharToken(TokenMinusAssign, "-=")
		default:
			tok = l.newToken(TokenMinus, l.ch)
		}
	case '*':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenStarAssign, "*=")
		} else {
			tok = l.newToken(TokenStar, l.ch)
		}
	case '/':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenSlashAssign, "/=")
		} else {
			tok = l.newToken(TokenSlash, l.ch)
		}
	case '%':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenPercentAssign, "%=")
		} else {
			tok = l.newToken(TokenPercent, l.ch)
		}
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenEq, "==")
		} else {
			tok = l.newToken(TokenAssign, l.ch)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenNe, "!=")
		} else {
			tok = l.newToken(TokenNot, l.ch)
		}
	case '<':
		if l.peekChar() == '<' {
			if l.peekCharAt(2) == '=' {
				tok = l.threeCharToken(TokenShlAssign, "<<=")
			} else {
				tok = l.twoCharToken(TokenShl, "<<")
			}
		} else if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenLe, "<=")
		} else {
			tok = l.newToken(TokenLt, l.ch)
		}
	case '>':
		if l.peekChar() == '>' {
			if l.peekCharAt(2) == '=' {
				tok = l.threeCharToken(TokenShrAssign, ">>=")
			} else {
				tok = l.twoCharToken(TokenShr, ">>")
			}
		} else if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenGe, ">=")
		} else {
			tok = l.newToken(TokenGt, l.ch)
		}
	case '&':
		switch l.peekChar() {
		case '&':
			tok = l.twoCharToken(TokenAnd, "&&")
		case '=':
			tok = l.twoCharToken(TokenAndAssign, "&=")
		default:
			tok = l.newToken(TokenAmpersand, l.ch)
		}
	case '|':
		switch l.peekChar() {
		case '|':
			tok = l.twoCharToken(TokenOr, "||")
		case '=':
			tok = l.twoCharToken(TokenOrAssign, "|=")
		default:
			tok = l.newToken(TokenPipe, l.ch)
		}
	case '^':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(TokenXorAssign, "^=")
		} else {
			tok = l.newToken(TokenCaret, l.ch)
		}
	case '~':
		tok = l.newToken(TokenTilde, l.ch)
	case '(':
		tok = l.newToken(TokenLParen, l.ch)
	case ')':
		tok = l.newToken(TokenRParen, l.ch)
	case '{':
		tok = l.newToken(TokenLBrace, l.ch)
	case '}':
		tok = l.newToken(TokenRBrace, l.ch)
	case '[':
		tok = l.newToken(TokenLBracket, l.ch)
	case ']':
		tok = l.newToken(TokenRBracket, l.ch)
	case ';':
		tok = l.newToken(TokenSemicolon, l.ch)
	case ',':
		tok = l.newToken(TokenComma, l.ch)
	case '?':
		tok = l.newToken(TokenQuestion, l.ch)
	case ':':
		tok = l.newToken(TokenColon, l.ch)
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber(tok)
		}
		if l.peekChar() == '.' && l.peekCharAt(2) == '.' {
			tok = l.threeCharToken(TokenEllipsis, "...")
		} else {
			tok = l.newToken(TokenDot, l.ch)
		}
	case '"':
		return l.readString(tok)
	case '\'':
		return l.readCharConst(tok)
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			return l.readNumber(tok)
		}
		tok = l.newToken(TokenIllegal, l.ch)
		l.addError(tok.Pos(), diag.UnexpectedToken, "unexpected character %q", string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, ch byte) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: l.line, Column: l.column}
}

func (l *Lexer) twoCharToken(tokenType TokenType, lit string) Token {
	tok := Token{Type: tokenType, Literal: lit, Line: l.line, Column: l.column}
	l.readChar()
	return tok
}

func (l *Lexer) threeCharToken(tokenType TokenType, lit string) Token {
	tok := Token{Type: tokenType, Literal: lit, Line: l.line, Column: l.column}
	l.readChar()
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch != '/' {
			return
		}
		if l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		} else if l.peekChar() == '*' {
			start := diag.Pos{Line: l.line, Column: l.column}
			l.readChar() // consume /
			l.readChar() // consume *
			closed := false
			for l.ch != 0 {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					closed = true
					break
				}
				l.readChar()
			}
			if !closed {
				l.addError(start, diag.UnterminatedComment, "unterminated block comment")
			}
		} else {
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber lexes an integer or floating constant. Suffix characters are
// recorded verbatim; classifying them into a language-level type is a
// semantic-layer job.
func (l *Lexer) readNumber(tok Token) Token {
	start := l.pos
	isFloat := false

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' {
			isFloat = true
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	numEnd := l.pos

	// Suffix run: consume every trailing letter so a bad suffix like 42xyz
	// becomes one diagnostic, not an INT followed by an IDENT.
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok.Literal = l.input[start:l.pos]
	num := l.input[start:numEnd]
	suffix := l.input[numEnd:l.pos]

	if isFloat {
		if !validFloatSuffix(suffix) {
			l.addError(tok.Pos(), diag.InvalidNumericLiteral, "invalid suffix %q on floating constant", suffix)
			tok.Type = TokenIllegal
			return tok
		}
		val, err := strconv.ParseFloat(num, 64)
		if err != nil {
			l.addError(tok.Pos(), diag.InvalidNumericLiteral, "malformed floating constant %q", tok.Literal)
			tok.Type = TokenIllegal
			return tok
		}
		tok.Type = TokenFloat
		tok.FloatVal = val
		tok.Suffix = suffix
		return tok
	}

	if !validIntSuffix(suffix) {
		l.addError(tok.Pos(), diag.InvalidNumericLiteral, "invalid suffix %q on integer constant", suffix)
		tok.Type = TokenIllegal
		return tok
	}
	val, err := strconv.ParseUint(num, 0, 64)
	if err != nil {
		l.addError(tok.Pos(), diag.InvalidNumericLiteral, "malformed integer constant %q", tok.Literal)
		tok.Type = TokenIllegal
		return tok
	}
	tok.Type = TokenInt
	tok.IntVal = val
	tok.Suffix = suffix
	return tok
}

// validIntSuffix accepts at most one u/U and at most ll/LL or l/L, in
// either order.
func validIntSuffix(s string) bool {
	u, ls := 0, 0
	for i := 0; i < len(s); {
		switch s[i] {
		case 'u', 'U':
			u++
			i++
		case 'l', 'L':
			if i+1 < len(s) && s[i+1] == s[i] {
				i += 2
			} else {
				i++
			}
			ls++
		default:
			return false
		}
	}
	return u <= 1 && ls <= 1
}

func validFloatSuffix(s string) bool {
	switch s {
	case "", "f", "F", "l", "L":
		return true
	}
	return false
}

func (l *Lexer) readString(tok Token) Token {
	start := l.pos
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			tok.Type = TokenIllegal
			tok.Literal = l.input[start:l.pos]
			l.addError(tok.Pos(), diag.UnterminatedString, "unterminated string literal")
			return tok
		}
		if l.ch == '\\' {
			sb.WriteString(l.readEscape())
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	tok.Type = TokenString
	tok.Literal = l.input[start:l.pos]
	tok.StrVal = sb.String()
	return tok
}

func (l *Lexer) readCharConst(tok Token) Token {
	start := l.pos
	l.readChar() // consume opening quote
	var val uint64
	n := 0
	for l.ch != '\'' {
		if l.ch == 0 || l.ch == '\n' {
			tok.Type = TokenIllegal
			tok.Literal = l.input[start:l.pos]
			l.addError(tok.Pos(), diag.UnterminatedString, "unterminated character constant")
			return tok
		}
		var decoded string
		if l.ch == '\\' {
			decoded = l.readEscape()
		} else {
			decoded = string(l.ch)
			l.readChar()
		}
		for i := 0; i < len(decoded); i++ {
			val = val<<8 | uint64(decoded[i])
			n++
		}
	}
	l.readChar() // consume closing quote
	tok.Literal = l.input[start:l.pos]
	if n == 0 {
		tok.Type = TokenIllegal
		l.addError(tok.Pos(), diag.InvalidNumericLiteral, "empty character constant")
		return tok
	}
	tok.Type = TokenCharConst
	tok.IntVal = val
	return tok
}

// readEscape decodes one escape sequence starting at the backslash and
// returns its decoded bytes. Invalid escapes are reported and kept verbatim
// (minus the backslash) so lexing can continue.
func (l *Lexer) readEscape() string {
	pos := diag.Pos{Line: l.line, Column: l.column}
	l.readChar() // consume backslash
	ch := l.ch
	switch ch {
	case 'n':
		l.readChar()
		return "\n"
	case 't':
		l.readChar()
		return "\t"
	case 'r':
		l.readChar()
		return "\r"
	case 'a':
		l.readChar()
		return "\a"
	case 'b':
		l.readChar()
		return "\b"
	case 'f':
		l.readChar()
		return "\f"
	case 'v':
		l.readChar()
		return "\v"
	case '\\', '\'', '"', '?':
		l.readChar()
		return string(ch)
	case 'x':
		l.readChar()
		val := 0
		digits := 0
		for isHexDigit(l.ch) {
			val = val*16 + hexVal(l.ch)
			digits++
			l.readChar()
		}
		if digits == 0 {
			l.addError(pos, diag.InvalidEscape, "\\x used with no following hex digits")
			return "x"
		}
		return string(byte(val))
	default:
		if ch >= '0' && ch <= '7' {
			val := 0
			for i := 0; i < 3 && l.ch >= '0' && l.ch <= '7'; i++ {
				val = val*8 + int(l.ch-'0')
				l.readChar()
			}
			return string(byte(val))
		}
		l.addError(pos, diag.InvalidEscape, "unknown escape sequence \\%s", string(ch))
		l.readChar()
		return string(ch)
	}
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func hexVal(ch byte) int {
	switch {
	case isDigit(ch):
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}
