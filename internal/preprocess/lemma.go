package preprocess

import "strings"

// irregularNouns maps common irregular plurals to their singular.
var irregularNouns = map[string]string{
	"children": "child",
	"feet":     "foot",
	"geese":    "goose",
	"men":      "man",
	"mice":     "mouse",
	"people":   "person",
	"teeth":    "tooth",
	"women":    "woman",
	"data":     "datum",
	"criteria": "criterion",
}

// ieNouns are singulars ending in "ie", whose plurals must not take the
// "ies" -> "y" rule.
var ieNouns = map[string]bool{
	"brownie": true, "calorie": true, "cookie": true, "genie": true,
	"hippie": true, "movie": true, "pie": true, "rookie": true,
	"selfie": true, "tie": true, "zombie": true, "lie": true,
}

// nounSuffixes are a subset of WordNet's noun detachment rules, checked in
// order. Without a dictionary to confirm candidates, only rules that rarely
// misfire are kept.
var nounSuffixes = []struct{ from, to string }{
	{"sses", "ss"},
	{"ches", "ch"},
	{"shes", "sh"},
	{"xes", "x"},
	{"ies", "y"},
	{"s", ""},
}

// Lemmatize reduces each whitespace-separated token of text to a noun lemma.
//
// There is no dictionary behind it: irregular plurals come from a short
// table and regular ones from WordNet's noun suffix rules, guarded so that
// short words and words ending in "ss", "us" or "is" are left alone. Unlike
// Stem, the output is always a plausible word ("studies" becomes "study").
// Case is preserved for tokens that are not rewritten.
func Lemmatize(text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = lemmatizeWord(f)
	}
	return strings.Join(fields, " ")
}

func lemmatizeWord(word string) string {
	lower := strings.ToLower(word)
	if lemma, ok := irregularNouns[lower]; ok {
		return lemma
	}
	if len(lower) <= 3 {
		return word
	}
	for _, suffix := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(lower, suffix) {
			return word
		}
	}
	if strings.HasSuffix(lower, "ies") && ieNouns[lower[:len(lower)-1]] {
		return lower[:len(lower)-1]
	}
	for _, rule := range nounSuffixes {
		if strings.HasSuffix(lower, rule.from) {
			return lower[:len(lower)-len(rule.from)] + rule.to
		}
	}
	return word
}
