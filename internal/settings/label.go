package settings

import (
	"fmt"
	"strings"
	"unicode"
)

// acronyms are applied in order to every title-cased word.
var acronyms = []struct{ from, to string }{
	{"Aws", "AWS"},
	{"Url", "URL"},
	{"Id", "ID"},
	{"Db", "Database"},
	{"Api", "API"},
	{"Oauth", "OAuth"},
}

var labelSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// Label derives a display label from a setting name, e.g. "aws_db_id"
// becomes "AWS Database ID".
func Label(name string) string {
	words := strings.Split(labelSeparators.Replace(name), " ")
	for i, word := range words {
		word = titleWord(word)
		for _, a := range acronyms {
			word = strings.ReplaceAll(word, a.from, a.to)
		}
		words[i] = word
	}
	return strings.Join(words, " ")
}

// optionLabel labels an enum member. Non-string members are labelled by
// their printed form.
func optionLabel(v any) string {
	if s, ok := v.(string); ok {
		return Label(s)
	}
	return Label(fmt.Sprint(v))
}

// titleWord upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "oauth2token" becomes "Oauth2Token".
func titleWord(word string) string {
	var b strings.Builder
	b.Grow(len(word))

	prevLetter := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
