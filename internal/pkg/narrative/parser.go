// Package narrative turns the lightweight markup returned by the text
// generation model into display blocks. It knows nothing about payroll.
package narrative

import (
	"strings"
)

type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockBullet    BlockType = "bullet"
	BlockQuote     BlockType = "quote"
	BlockParagraph BlockType = "paragraph"
)

type Block struct {
	Type  BlockType `json:"type"`
	Level int       `json:"level,omitempty"`
	Text  string    `json:"text"`
}

var inlineMarkers = strings.NewReplacer("**", "", "__", "", "`", "")

func clean(s string) string {
	return strings.TrimSpace(inlineMarkers.Replace(s))
}

// Parse classifies each line by its prefix: "#" headings (level = number of
// hashes, max 6), "- " or "* " bullets, "> " quotes. Consecutive plain lines
// are joined into one paragraph; a blank line ends it.
func Parse(text string) []Block {
	blocks := []Block{}
	var paragraph []string

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		blocks = append(blocks, Block{Type: BlockParagraph, Text: strings.Join(paragraph, " ")})
		paragraph = paragraph[:0]
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			level := len(line) - len(strings.TrimLeft(line, "#"))
			rest := line[level:]
			if !strings.HasPrefix(rest, " ") {
				paragraph = append(paragraph, clean(line))
				continue
			}
			flush()
			blocks = append(blocks, Block{Type: BlockHeading, Level: min(level, 6), Text: clean(rest)})
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			flush()
			blocks = append(blocks, Block{Type: BlockBullet, Text: clean(line[2:])})
		case strings.HasPrefix(line, ">"):
			flush()
			blocks = append(blocks, Block{Type: BlockQuote, Text: clean(strings.TrimPrefix(line, ">"))})
		default:
			paragraph = append(paragraph, clean(line))
		}
	}
	flush()

	return blocks
}
