package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
	"golang.org/x/text/unicode/norm"
)

// enclosingChars are stripped from both ends of a cell before image sniffing.
const enclosingChars = "'\"‘’“”`<>()"

// imageExtensions are the path suffixes treated as image links.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

var (
	dataURIPattern = regexp.MustCompile(`(?i)data:image/[a-z0-9.+-]+(?:;[a-z0-9=.+-]+)*,[A-Za-z0-9+/=%._~-]*`)
	httpURLPattern = regexp.MustCompile(`(?i)https?://[^\s'"<>‘’“”]+`)
)

// NormalizeText converts a cell to trimmed, NFC-normalized text.
// Absent cells become the empty string.
func NormalizeText(cell models.Cell) string {
	var s string
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		s = v
	case []byte:
		s = string(v)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case int32:
		s = strconv.FormatInt(int64(v), 10)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		s = strconv.FormatBool(v)
	case time.Time:
		s = formatDate(v)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return norm.NFC.String(strings.TrimSpace(s))
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// Upper returns the normalized text of a cell upper-cased for keyword matching.
func Upper(cell models.Cell) string {
	return strings.ToUpper(NormalizeText(cell))
}

// StripEnclosingQuotes removes leading and trailing runs of quotes and
// angle/round brackets. Interior content is left untouched.
func StripEnclosingQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, enclosingChars)
	s = strings.TrimRight(s, enclosingChars)
	return strings.TrimSpace(s)
}

// ExtractImageReference returns the best image locator found in a cell:
// an image data URI, else the first http(s) URL with an image extension,
// else the first http(s) URL of any form, else "".
func ExtractImageReference(cell models.Cell) string {
	s := StripEnclosingQuotes(NormalizeText(cell))
	if s == "" {
		return ""
	}
	if m := dataURIPattern.FindString(s); m != "" {
		return m
	}

	urls := httpURLPattern.FindAllString(s, -1)
	for i, u := range urls {
		urls[i] = trimURL(u)
	}
	for _, u := range urls {
		if hasImageExtension(u) {
			return u
		}
	}
	if len(urls) > 0 {
		return urls[0]
	}
	return ""
}

// LooksLikeImageReference reports whether ExtractImageReference yields a data
// URI or an http(s) URL.
func LooksLikeImageReference(cell models.Cell) bool {
	return isImageLocator(ExtractImageReference(cell))
}

func isImageLocator(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "data:image/") ||
		strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://")
}

// trimURL drops punctuation that commonly trails a link in prose.
func trimURL(u string) string {
	u = strings.TrimRight(u, enclosingChars)
	return strings.TrimRight(u, ".,;")
}

func hasImageExtension(u string) bool {
	path := u
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
