// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm holds the text cleanup rules shared by the title index
// and the bibliography normalizer. Both sides of a match must be normalized
// the same way, so the rules live in one place.
package textnorm

import (
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// titleLabelRe matches a BibTeX "title =" field label at the start of a line.
var titleLabelRe = regexp.MustCompile(`(?m)^[ \t]*title[ \t]*=`)

// markerReplacer removes the structural markers left over from compiled
// bibliographies once backslashes are gone.
var markerReplacer = strings.NewReplacer("bibitem", "", "newblock", "")

// Decode converts raw file bytes to a string. Invalid UTF-8 is replaced
// rather than rejected and a leading byte order mark is dropped.
func Decode(data []byte) string {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

// ReadFile reads path and decodes it with Decode.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Decode(data), nil
}

// Title lowercases s, trims it, and keeps only ASCII letters, digits, and
// spaces.
func Title(s string) string {
	return keep(strings.ToLower(strings.TrimSpace(s)), false)
}

// Bibliography lowercases raw reference text and strips markup: "title ="
// labels, every character other than ASCII letters, digits, and whitespace,
// and the bibitem/newblock markers.
func Bibliography(s string) string {
	s = strings.ToLower(s)
	s = titleLabelRe.ReplaceAllString(s, "")
	s = keep(s, true)
	return markerReplacer.Replace(s)
}

func keep(s string, whitespace bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == ' ':
			b.WriteByte(c)
		case whitespace && (c == '\n' || c == '\t'):
			b.WriteByte(c)
		}
	}
	return b.String()
}
