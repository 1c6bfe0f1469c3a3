package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	runsOfSpace   = regexp.MustCompile(`[ \t\x{00A0}]+`)
	excessBlanks  = regexp.MustCompile(`\n{3,}`)
	bulletGlyphs  = regexp.MustCompile(`^[\x{2022}\x{25CF}\x{25AA}\x{25E6}\x{2023}\x{2043}\x{00B7}\x{F0B7}\x{F0A7}]\s*`)
	controlString = strings.NewReplacer("\x00", "", "\f", "\n", "\u200b", "", "\ufeff", "")
)

// CleanText normalizes extracted text: line endings become LF, runs of blanks collapse to
// one space, bullet glyphs are unified to "•" and at most one empty line separates blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = controlString.Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	out := excessBlanks.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(runsOfSpace.ReplaceAllString(line, " "))
	if line == "" {
		return ""
	}
	if bulletGlyphs.MatchString(line) {
		return "• " + bulletGlyphs.ReplaceAllString(line, "")
	}
	return line
}

// Hash returns the hex SHA-256 of text; reports use it to recognise a resubmitted resume.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
