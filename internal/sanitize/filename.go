package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFilenameLength is the maximum allowed length, in runes, of the title part of a filename.
	MaxFilenameLength = 120
	// DefaultExt is the extension of transcript documents.
	DefaultExt = "txt"
	// DefaultName replaces a title that sanitizes to nothing.
	DefaultName = "video"
)

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	controlRun  = regexp.MustCompile(`[\x00-\x1f]+`)
)

// SafeTitle removes characters that are invalid in file names on common
// platforms and trims the result.
func SafeTitle(title string) string {
	name := unsafeChars.ReplaceAllString(title, "")
	name = controlRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxFilenameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxFilenameLength]))
	}
	if name == "" {
		name = DefaultName
	}
	return name
}

// TranscriptFilename is the document name for the seq-th saved transcript,
// e.g. "01_My Video.txt".
func TranscriptFilename(seq int, title string) string {
	return fmt.Sprintf("%02d_%s.%s", seq, SafeTitle(title), DefaultExt)
}
