// Package format converts lightweight markdown into Telegram message
// entities. Entity offsets are UTF-16 code units, not bytes or runes, so
// all position math goes through UTF16Len.
package format

import (
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and the entities describing its styling.
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len returns the UTF-16 length of s. Telegram measures entity
// offsets and lengths in UTF-16 code units.
func UTF16Len(s string) int {
	length := 0
	for _, b := range []byte(s) {
		if (b & 0xc0) != 0x80 {
			if b >= 0xf0 {
				length += 2 // surrogate pair
			} else {
				length++
			}
		}
	}
	return length
}

var (
	headerRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+?)$`)
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeRe   = regexp.MustCompile("`([^`]+?)`")
)

// ParseMarkdown strips **bold** and `code` markers (plus # headers, which
// become bold) out of text and returns the equivalent message entities.
func ParseMarkdown(text string) ParseResult {
	var entities []tgbotapi.MessageEntity

	// Headers become bold lines before the inline passes run.
	result := headerRe.ReplaceAllString(text, "**$2**")

	strip := func(re *regexp.Regexp, entityType string) {
		for {
			loc := re.FindStringSubmatchIndex(result)
			if loc == nil {
				return
			}
			inner := result[loc[2]:loc[3]]
			entities = append(entities, tgbotapi.MessageEntity{
				Type:   entityType,
				Offset: UTF16Len(result[:loc[0]]),
				Length: UTF16Len(inner),
			})
			result = result[:loc[0]] + inner + result[loc[1]:]
		}
	}

	strip(boldRe, "bold")
	strip(codeRe, "code")

	// Telegram requires entities sorted by offset.
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			if entities[j].Offset < entities[i].Offset {
				entities[i], entities[j] = entities[j], entities[i]
			}
		}
	}

	return ParseResult{
		Text:     strings.TrimRight(result, " \n"),
		Entities: entities,
	}
}
