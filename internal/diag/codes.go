package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadEscape          Code = 1003
	LexBadNumber          Code = 1004

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynExpectSemicolon    Code = 2006
	SynUnclosedParen      Code = 2007
	SynUnclosedBrace      Code = 2008
	SynChainedComparison  Code = 2009
	SynTooManyErrors      Code = 2010

	// Семантические
	SemaInfo                  Code = 3000
	SemaUnresolvedSymbol      Code = 3001
	SemaDuplicateSymbol       Code = 3002
	SemaUnknownType           Code = 3003
	SemaTypeMismatch          Code = 3004
	SemaInvalidBinaryOperands Code = 3005
	SemaInvalidUnaryOperand   Code = 3006
	SemaNotCallable           Code = 3007
	SemaArgumentCount         Code = 3008
	SemaNotAssignable         Code = 3009
	SemaMissingReturn         Code = 3010
	SemaBreakOutsideLoop      Code = 3011
	SemaIntLiteralRange       Code = 3012
	SemaEntrypointNotFound    Code = 3013
	SemaEntrypointSignature   Code = 3014
	SemaUseBeforeDeclaration  Code = 3015
	SemaNotAValue             Code = 3016
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadEscape:          "Invalid escape sequence",
	LexBadNumber:          "Invalid number literal",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnexpectedTopLevel: "Unexpected top-level construct",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectType:         "Expected type",
	SynExpectExpression:   "Expected expression",
	SynExpectSemicolon:    "Expected semicolon",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBrace:      "Unclosed brace",
	SynChainedComparison:  "Comparison operators do not chain",
	SynTooManyErrors:      "Too many syntax errors",

	SemaInfo:                  "Semantic information",
	SemaUnresolvedSymbol:      "Unresolved symbol",
	SemaDuplicateSymbol:       "Duplicate symbol",
	SemaUnknownType:           "Unknown type",
	SemaTypeMismatch:          "Type mismatch",
	SemaInvalidBinaryOperands: "Invalid binary operands",
	SemaInvalidUnaryOperand:   "Invalid unary operand",
	SemaNotCallable:           "Expression is not callable",
	SemaArgumentCount:         "Wrong number of arguments",
	SemaNotAssignable:         "Expression is not assignable",
	SemaMissingReturn:         "Missing return",
	SemaBreakOutsideLoop:      "Loop control outside of a loop",
	SemaIntLiteralRange:       "Integer literal out of range",
	SemaEntrypointNotFound:    "Entrypoint not found",
	SemaEntrypointSignature:   "Invalid entrypoint signature",
	SemaUseBeforeDeclaration:  "Use before declaration",
	SemaNotAValue:             "Name does not denote a value",
}

// ID returns the stable short identifier, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 1000:
		return fmt.Sprintf("LEX%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if s, ok := codeDescription[c]; ok {
		return s
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
