package services

import (
	"regexp"
	"strings"
)

// synonymTable folds common query variants onto the vocabulary the
// corpus actually uses. Applied token by token after lowercasing.
var synonymTable = map[string]string{
	"taxes":        "tax",
	"taxation":     "tax",
	"invoices":     "invoice",
	"invoicing":    "invoice",
	"modules":      "module",
	"installing":   "install",
	"installation": "install",
}

// versionPattern matches release tokens ("17.0", "v16", "v17.0") but
// not bare integers, so "3 steps" survives untouched.
var versionPattern = regexp.MustCompile(`\bv\d+(?:\.\d+)*\b|\b\d+\.\d+\b`)

// punctPattern matches runs of anything that is not a letter, digit
// or whitespace.
var punctPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// preprocessQuery normalises a raw query before embedding: lowercase,
// release tokens folded to a "version <major>" prefix, punctuation
// stripped, and synonyms mapped onto corpus vocabulary.
func preprocessQuery(query string) string {
	q := strings.ToLower(query)

	var major string
	q = versionPattern.ReplaceAllStringFunc(q, func(tok string) string {
		if major == "" {
			major = versionMajor(tok)
		}
		return " "
	})

	q = punctPattern.ReplaceAllString(q, " ")

	tokens := strings.Fields(q)
	for i, tok := range tokens {
		if folded, ok := synonymTable[tok]; ok {
			tokens[i] = folded
		}
	}
	if major != "" {
		tokens = append([]string{"version", major}, tokens...)
	}
	return strings.Join(tokens, " ")
}

// versionMajor extracts the major release from a matched token:
// "17.0" and "v17.0" both yield "17".
func versionMajor(tok string) string {
	tok = strings.TrimPrefix(tok, "v")
	if i := strings.IndexByte(tok, '.'); i >= 0 {
		tok = tok[:i]
	}
	return tok
}
