package token

var keywords = map[string]Kind{
	"fn":       KwFn,
	"var":      KwVar,
	"return":   KwReturn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"break":    KwBreak,
	"continue": KwContinue,
	"true":     KwTrue,
	"false":    KwFalse,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
