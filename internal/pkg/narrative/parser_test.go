package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	input := "# Resumo da folha\r\n" +
		"A folha de **fevereiro** subiu.\n" +
		"O aumento veio dos PJ.\n" +
		"\n" +
		"## Destaques\n" +
		"- Efetivos: +1\n" +
		"* Comissionados estáveis\n" +
		"> Atenção ao 13º salário\n" +
		"#hashtag sem espaço\n"

	got := Parse(input)

	want := []Block{
		{Type: BlockHeading, Level: 1, Text: "Resumo da folha"},
		{Type: BlockParagraph, Text: "A folha de fevereiro subiu. O aumento veio dos PJ."},
		{Type: BlockHeading, Level: 2, Text: "Destaques"},
		{Type: BlockBullet, Text: "Efetivos: +1"},
		{Type: BlockBullet, Text: "Comissionados estáveis"},
		{Type: BlockQuote, Text: "Atenção ao 13º salário"},
		{Type: BlockParagraph, Text: "#hashtag sem espaço"},
	}
	assert.Equal(t, want, got)
}

func TestParse_Empty(t *testing.T) {
	assert.Equal(t, []Block{}, Parse(""))
	assert.Equal(t, []Block{}, Parse("\n\n   \n"))
}

func TestParse_HeadingLevelCapped(t *testing.T) {
	got := Parse("######## Deep")
	assert.Equal(t, []Block{{Type: BlockHeading, Level: 6, Text: "Deep"}}, got)
}
