package lexer

// skipTrivia пропускает пробелы и комментарии `// ...`.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
			continue
		case '/':
			b0, b1, ok := lx.cursor.Peek2()
			if ok && b0 == '/' && b1 == '/' {
				for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
					lx.cursor.Bump()
				}
				continue
			}
		}
		return
	}
}
