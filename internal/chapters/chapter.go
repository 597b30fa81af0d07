package chapters

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/brogergvhs/mangafox/internal/site"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Chapter struct {
	site.Chapter
}

func Wrap(all []site.Chapter) []Chapter {
	out := make([]Chapter, len(all))
	for i, c := range all {
		out[i] = Chapter{Chapter: c}
	}
	return out
}

// FolderName is the directory the chapter's pages are written to: the
// zero-padded index when enumerating, the sanitized name otherwise.
func (c Chapter) FolderName(enumerate bool) string {
	if enumerate {
		return fmt.Sprintf("%03d", c.Index)
	}

	if name := SanitizeFilename(c.Name); name != "" {
		return name
	}

	return fmt.Sprintf("chapter_%03d", c.Index)
}

func (c Chapter) Label() string {
	return fmt.Sprintf("%02d", c.Index)
}

var asciiOnly = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

// SanitizeFilename reduces s to a safe, flat file name: accents are
// folded to ASCII, path separators and whitespace become underscores, and
// anything outside [A-Za-z0-9_.-] is dropped. It may return "".
func SanitizeFilename(s string) string {
	folded, _, err := transform.String(asciiOnly, s)
	if err != nil {
		folded = s
	}

	folded = strings.NewReplacer("/", " ", `\`, " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")

	var b strings.Builder
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' || r == '-') {
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "._")

	base, _, _ := strings.Cut(out, ".")
	if windowsDeviceNames[strings.ToUpper(base)] {
		out = "_" + out
	}

	return out
}
