package primitives

import "strings"

// f4Escapes is applied, in order, by EscapeF4 and reversed by UnescapeF4.
// "&" itself is never escaped, so decoding is a simple set of literal
// replacements rather than a general entity decoder.
var f4Escapes = []struct{ raw, encoded string }{
	{"\"", "&dquot;"},
	{"[", "&open;"},
	{"]", "&close;"},
	{"\t", "&tab;"},
	{",", "&comma;"},
}

// EscapeF4 encodes the characters F4 attribute values cannot contain
// literally: double quote, brackets, tab, and comma (the last because tags
// are comma-joined into a single attribute).
func EscapeF4(s string) string {
	for _, e := range f4Escapes {
		s = strings.ReplaceAll(s, e.raw, e.encoded)
	}
	return s
}

// UnescapeF4 reverses EscapeF4, applying the replacements in reverse
// order. Because "&" is not escaped, text that already contained one of
// the entity strings before encoding (e.g. a literal "&comma;") does not
// survive a round trip: it decodes to the plain character.
func UnescapeF4(s string) string {
	for i := len(f4Escapes) - 1; i >= 0; i-- {
		e := f4Escapes[i]
		s = strings.ReplaceAll(s, e.encoded, e.raw)
	}
	return s
}

// SplitWords splits s on runs of any character in seps, discarding empty
// fields. Used for
// tag lists, dependency lists, and other space/comma separated sets.
func SplitWords(s string, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}

// JoinWords joins words with sep, the inverse of SplitWords for a single
// separator.
func JoinWords(words []string, sep string) string {
	return strings.Join(words, sep)
}
