package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knfc-lang/knfc/internal/lexer"
)

func tokenTypes(t *testing.T, src string) []lexer.TokenType {
	t.Helper()
	l := lexer.New("<test>", lexer.Normalize([]byte(src)))
	var out []lexer.TokenType
	for {
		tok := l.Next()
		out = append(out, tok.Type)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return out
}

func TestNext_ScansKeywordsAndIdentifiersSeparately(t *testing.T) {
	got := tokenTypes(t, "let rec x in")
	assert.Equal(t, []lexer.TokenType{lexer.LET, lexer.REC, lexer.IDENT, lexer.IN, lexer.EOF}, got)
}

func TestNext_ScansTwoCharacterOperatorsGreedily(t *testing.T) {
	got := tokenTypes(t, "-> => == != <= >=")
	assert.Equal(t, []lexer.TokenType{
		lexer.ARROW, lexer.FATARROW, lexer.EQEQ, lexer.NEQ, lexer.LEQ, lexer.GEQ, lexer.EOF,
	}, got)
}

func TestNext_DoesNotConfuseMinusWithArrow(t *testing.T) {
	got := tokenTypes(t, "a - b")
	assert.Equal(t, []lexer.TokenType{lexer.IDENT, lexer.MINUS, lexer.IDENT, lexer.EOF}, got)
}

func TestNext_EmptyParensIsAUnitLiteralNotAnEmptyGroup(t *testing.T) {
	got := tokenTypes(t, "()")
	assert.Equal(t, []lexer.TokenType{lexer.UNIT, lexer.EOF}, got)
}

func TestNext_LineCommentIsSkippedAsTrivia(t *testing.T) {
	got := tokenTypes(t, "1 -- this is a comment\n+ 2")
	assert.Equal(t, []lexer.TokenType{lexer.INT, lexer.PLUS, lexer.INT, lexer.EOF}, got)
}

func TestNext_RecordsLineAndColumnAcrossNewlines(t *testing.T) {
	l := lexer.New("<test>", lexer.Normalize([]byte("let\nx")))
	let := l.Next()
	require.Equal(t, lexer.LET, let.Type)
	assert.Equal(t, 1, let.Line)

	x := l.Next()
	require.Equal(t, lexer.IDENT, x.Type)
	assert.Equal(t, 2, x.Line)
	assert.Equal(t, 1, x.Column)
}

func TestNext_IllegalCharacterProducesAnIllegalToken(t *testing.T) {
	got := tokenTypes(t, "@")
	assert.Equal(t, []lexer.TokenType{lexer.ILLEGAL, lexer.EOF}, got)
}

func TestNormalize_StripsUTF8BOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("1")...)
	got := lexer.Normalize(withBOM)
	assert.Equal(t, []byte("1"), got)
}
