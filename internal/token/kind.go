package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	StringLit

	KwFn       // fn
	KwVar      // var
	KwReturn   // return
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwBreak    // break
	KwContinue // continue
	KwTrue     // true
	KwFalse    // false
	KwAnd      // and
	KwOr       // or
	KwNot      // not

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Semicolon // ;
	Colon     // :
	Arrow     // ->
	Assign    // =
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
)

var kindNames = [...]string{
	Invalid:    "invalid",
	EOF:        "end of file",
	Ident:      "identifier",
	IntLit:     "integer literal",
	StringLit:  "string literal",
	KwFn:       "fn",
	KwVar:      "var",
	KwReturn:   "return",
	KwIf:       "if",
	KwElse:     "else",
	KwWhile:    "while",
	KwBreak:    "break",
	KwContinue: "continue",
	KwTrue:     "true",
	KwFalse:    "false",
	KwAnd:      "and",
	KwOr:       "or",
	KwNot:      "not",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	Comma:      ",",
	Semicolon:  ";",
	Colon:      ":",
	Arrow:      "->",
	Assign:     "=",
	EqEq:       "==",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
}

// String returns the spelling of punctuation and keywords, or a description.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsEOF reports whether k is EOF.
func (k Kind) IsEOF() bool { return k == EOF }
