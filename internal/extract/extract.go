// Package extract holds the lenient scraping primitives used against YouTube
// pages: ordered strategy chains, regex capture helpers, entity decoding and
// tolerant parsing of embedded array literals.
package extract

import (
	"regexp"
	"strings"
)

// Strategy pulls a value out of a page. The boolean is false when the
// strategy found nothing usable.
type Strategy[T any] interface {
	Extract(page string) (T, bool)
}

// Func adapts a plain function to Strategy.
type Func[T any] func(page string) (T, bool)

// Extract calls f.
func (f Func[T]) Extract(page string) (T, bool) { return f(page) }

// Chain tries strategies in order; the first match wins.
type Chain[T any] []Strategy[T]

// Extract runs the chain.
func (c Chain[T]) Extract(page string) (T, bool) {
	for _, s := range c {
		if v, ok := s.Extract(page); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Submatch returns a strategy yielding capture group 1 of the first match of re.
// An empty capture counts as a match; callers filter with Map when needed.
func Submatch(re *regexp.Regexp) Strategy[string] {
	return Func[string](func(page string) (string, bool) {
		m := re.FindStringSubmatch(page)
		if len(m) < 2 {
			return "", false
		}
		return m[1], true
	})
}

// Map post-processes the value of s. Returning false from f turns a match into a miss.
func Map[T, U any](s Strategy[T], f func(T) (U, bool)) Strategy[U] {
	return Func[U](func(page string) (U, bool) {
		v, ok := s.Extract(page)
		if !ok {
			var zero U
			return zero, false
		}
		return f(v)
	})
}

// AllSubmatches returns capture group 1 of every match of re in document order.
func AllSubmatches(re *regexp.Regexp, page string) []string {
	matches := re.FindAllStringSubmatch(page, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])
		}
	}
	return out
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// DecodeEntities decodes the five XML entities that appear in caption text.
// Replacement is single pass, so "&amp;lt;" becomes "&lt;" and not "<".
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

var textElement = regexp.MustCompile(`(?s)<text[^>]*>([^<]*)</text>`)

// TextElements returns the decoded content of every <text> element in a
// caption document, newlines folded to single spaces. Empty and blank
// elements are kept so joining preserves the document's spacing.
func TextElements(doc string) []string {
	raw := AllSubmatches(textElement, doc)
	out := make([]string, 0, len(raw))
	for _, frag := range raw {
		out = append(out, strings.ReplaceAll(DecodeEntities(frag), "\n", " "))
	}
	return out
}
