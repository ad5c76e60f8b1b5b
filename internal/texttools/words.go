package texttools

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type WordStats struct {
	Words           int     `json:"words"`
	CharsWithSpaces int     `json:"charsWithSpaces"`
	CharsNoSpaces   int     `json:"charsNoSpaces"`
	Paragraphs      int     `json:"paragraphs"`
	ReadingMinutes  float64 `json:"readingMinutes"`
}

const wordsPerMinute = 200

// CountWords counts characters as runes. One whitespace rule covers
// characters, words and paragraph breaks; U+FEFF counts as whitespace.
func CountWords(text string) WordStats {
	s := WordStats{CharsWithSpaces: utf8.RuneCountInString(text)}
	for _, r := range text {
		if !isSpace(r) {
			s.CharsNoSpaces++
		}
	}
	trimmed := strings.TrimFunc(text, isSpace)
	if trimmed == "" {
		return s
	}
	s.Words = len(strings.FieldsFunc(trimmed, isSpace))
	s.Paragraphs = countParagraphs(trimmed)
	s.ReadingMinutes = float64(s.Words) / wordsPerMinute
	return s
}

// countParagraphs counts blocks separated by whitespace runs that hold at
// least two line breaks. text must already be trimmed.
func countParagraphs(text string) int {
	paragraphs, newlines := 1, 0
	inRun := false
	for _, r := range text {
		if !isSpace(r) {
			if inRun && newlines >= 2 {
				paragraphs++
			}
			inRun, newlines = false, 0
			continue
		}
		inRun = true
		if r == '\n' {
			newlines++
		}
	}
	return paragraphs
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ReadingLabel formats minutes the way the counter displays them.
func (s WordStats) ReadingLabel() string {
	if s.ReadingMinutes < 1 {
		return "<1 min"
	}
	return strconv.FormatFloat(s.ReadingMinutes, 'f', 1, 64) + " min"
}
