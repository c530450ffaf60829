// Package normal contains text cleanup helpers for noisy bibliographic
// fields, like cited journal titles, page ranges or free text dates.
package normal

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// noiseWords are medium or format annotations that frequently end up inside
// cited journal titles. Replacement is case-sensitive and order matters,
// longer variants come before their prefixes.
var noiseWords = []string{
	"IMPRESSO",
	"IMPRESS",
	"PRINTED",
	"ONLINE",
	"CDROM",
	"PRINT",
	"ELECTRONIC",
	"ELETRONICO",
}

var (
	yearPattern   = regexp.MustCompile(`\d{4}`)
	digitsPattern = regexp.MustCompile(`\d+`)
	doiPattern    = regexp.MustCompile(`(?m)\d{2}\.\d+/.*$`)

	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalizer turns a string into a cleaner variant of itself.
type Normalizer interface {
	Normalize(string) string
}

// Pipeline applies a list of normalizers in order.
type Pipeline struct {
	Normalizer []Normalizer
}

func (p *Pipeline) Normalize(s string) string {
	for _, n := range p.Normalizer {
		s = n.Normalize(s)
	}
	return s
}

// Func adapts a plain function to the Normalizer interface.
type Func func(string) string

func (f Func) Normalize(s string) string { return f(s) }

// RemoveAccents decomposes a string and drops combining marks, é becomes e.
func RemoveAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Default applies the standard field cleanup: accents stripped, only
// alphanumerics and spaces kept, whitespace runs collapsed to a single
// space. Empty input yields the empty string. Case is preserved.
func Default(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(alnumSpace(RemoveAccents(s), false))
}

// TitleOptions control journal title cleanup.
type TitleOptions struct {
	// DiscardInvalidChars drops non-printable runes before further cleanup.
	DiscardInvalidChars bool
	// Uppercase returns the cleaned title in upper case, default is lower.
	Uppercase bool
}

// JournalTitle cleans a cited journal title: HTML entities are unescaped,
// parenthetical annotations and medium words like PRINT or ONLINE are
// removed, then the default cleanup runs, keeping @ and & which occur in
// legitimate titles.
func JournalTitle(s string, opts TitleOptions) string {
	s = html.UnescapeString(s)
	if opts.DiscardInvalidChars {
		s = removeInvalidChars(s)
	}
	s = StripParentheticals(s)
	for _, w := range noiseWords {
		s = strings.ReplaceAll(s, w, "")
	}
	s = collapseSpaces(alnumSpace(RemoveAccents(s), true))
	if opts.Uppercase {
		return strings.ToUpper(s)
	}
	return strings.ToLower(s)
}

const maxParentheticalRounds = 16

// StripParentheticals removes parenthetical spans from a string, including
// word characters directly attached to the parentheses, e.g. "Rev(ista)" is
// dropped entirely. Nested parentheses are removed outermost first; spans
// without a closing parenthesis are left alone. Best effort, the number of
// rounds is capped.
func StripParentheticals(s string) string {
	for i := 0; i < maxParentheticalRounds; i++ {
		start := strings.IndexByte(s, '(')
		if start == -1 {
			return s
		}
		end := -1
		depth := 0
		for j := start; j < len(s); j++ {
			switch s[j] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = j
				}
			}
			if end != -1 {
				break
			}
		}
		if end == -1 {
			return s
		}
		lo := start
		for lo > 0 {
			r, size := utf8.DecodeLastRuneInString(s[:lo])
			if !isWordRune(r) {
				break
			}
			lo -= size
		}
		hi := end + 1
		for hi < len(s) {
			r, size := utf8.DecodeRuneInString(s[hi:])
			if !isWordRune(r) {
				break
			}
			hi += size
		}
		s = s[:lo] + s[hi:]
	}
	return s
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}

// ExtractYear returns the first four digit run in a free text date, or the
// empty string.
func ExtractYear(s string) string {
	return yearPattern.FindString(s)
}

// ExtractIssue cleans a free text issue field and returns the first run of
// digits, or the empty string.
func ExtractIssue(s string) string {
	return digitsPattern.FindString(Default(s))
}

// ExtractVolume cleans a free text volume field and returns the first run
// of digits, or the empty string.
func ExtractVolume(s string) string {
	return digitsPattern.FindString(Default(s))
}

// ExtractDOI returns a DOI shaped substring, but only if the input contains
// exactly one such substring. Zero or multiple matches both yield the empty
// string, ambiguity counts as absence here.
func ExtractDOI(s string) string {
	matches := doiPattern.FindAllString(s, -1)
	if len(matches) == 1 {
		return matches[0]
	}
	return ""
}

// alnumSpace keeps letters, digits and spaces. Everything else is dropped.
// With keepSpecial, @ and & survive as well.
func alnumSpace(s string, keepSpecial bool) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case keepSpecial && (r == '@' || r == '&'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func removeInvalidChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ReplaceNewlineAndTab turns newlines and tabs into single spaces, useful
// before emitting values into line oriented formats.
func ReplaceNewlineAndTab(s string) string {
	var sb strings.Builder
	for _, c := range s {
		if c == '\n' || c == '\t' {
			sb.WriteString(" ")
		} else {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
