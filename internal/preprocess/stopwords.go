package preprocess

import (
	"sort"
	"strings"

	"github.com/kljensen/snowball/french"
	"github.com/kljensen/snowball/hungarian"
	"github.com/kljensen/snowball/norwegian"
	"github.com/kljensen/snowball/russian"
	"github.com/kljensen/snowball/spanish"
	"github.com/kljensen/snowball/swedish"
)

// DefaultLanguage is used for stopwords and stemming when none is set.
const DefaultLanguage = "english"

// stopwordSets maps a language to its stopword predicate. English uses the
// NLTK list; the others use the Snowball lists. Words are lowercase.
var stopwordSets = map[string]func(string) bool{
	"english":   func(w string) bool { return englishStopwords[w] },
	"french":    french.IsStopWord,
	"hungarian": hungarian.IsStopWord,
	"norwegian": norwegian.IsStopWord,
	"russian":   russian.IsStopWord,
	"spanish":   spanish.IsStopWord,
	"swedish":   swedish.IsStopWord,
}

// Languages lists the supported stopword and stemming languages.
func Languages() []string {
	langs := make([]string, 0, len(stopwordSets))
	for l := range stopwordSets {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// ValidLanguage reports whether language is supported. Empty means
// DefaultLanguage.
func ValidLanguage(language string) bool {
	if language == "" {
		return true
	}
	_, ok := stopwordSets[strings.ToLower(language)]
	return ok
}

// stopwordsFor returns the predicate for language, falling back to English.
func stopwordsFor(language string) func(string) bool {
	if f, ok := stopwordSets[strings.ToLower(language)]; ok {
		return f
	}
	return stopwordSets[DefaultLanguage]
}

// englishStopwords is the NLTK English stopword list.
var englishStopwords = map[string]bool{
	"i": true, "me": true, "my": true, "myself": true, "we": true, "our": true,
	"ours": true, "ourselves": true, "you": true, "you're": true, "you've": true,
	"you'll": true, "you'd": true, "your": true, "yours": true, "yourself": true,
	"yourselves": true, "he": true, "him": true, "his": true, "himself": true,
	"she": true, "she's": true, "her": true, "hers": true, "herself": true,
	"it": true, "it's": true, "its": true, "itself": true, "they": true,
	"them": true, "their": true, "theirs": true, "themselves": true, "what": true,
	"which": true, "who": true, "whom": true, "this": true, "that": true,
	"that'll": true, "these": true, "those": true, "am": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "having": true,
	"do": true, "does": true, "did": true, "doing": true, "a": true, "an": true,
	"the": true, "and": true, "but": true, "if": true, "or": true,
	"because": true, "as": true, "until": true, "while": true, "of": true,
	"at": true, "by": true, "for": true, "with": true, "about": true,
	"against": true, "between": true, "into": true, "through": true,
	"during": true, "before": true, "after": true, "above": true, "below": true,
	"to": true, "from": true, "up": true, "down": true, "in": true, "out": true,
	"on": true, "off": true, "over": true, "under": true, "again": true,
	"further": true, "then": true, "once": true, "here": true, "there": true,
	"when": true, "where": true, "why": true, "how": true, "all": true,
	"any": true, "both": true, "each": true, "few": true, "more": true,
	"most": true, "other": true, "some": true, "such": true, "no": true,
	"nor": true, "not": true, "only": true, "own": true, "same": true,
	"so": true, "than": true, "too": true, "very": true, "s": true, "t": true,
	"can": true, "will": true, "just": true, "don": true, "don't": true,
	"should": true, "should've": true, "now": true, "d": true, "ll": true,
	"m": true, "o": true, "re": true, "ve": true, "y": true, "ain": true,
	"aren": true, "aren't": true, "couldn": true, "couldn't": true,
	"didn": true, "didn't": true, "doesn": true, "doesn't": true, "hadn": true,
	"hadn't": true, "hasn": true, "hasn't": true, "haven": true,
	"haven't": true, "isn": true, "isn't": true, "ma": true, "mightn": true,
	"mightn't": true, "mustn": true, "mustn't": true, "needn": true,
	"needn't": true, "shan": true, "shan't": true, "shouldn": true,
	"shouldn't": true, "wasn": true, "wasn't": true, "weren": true,
	"weren't": true, "won": true, "won't": true, "wouldn": true,
	"wouldn't": true,
}

// IsStopword reports whether word is an English stopword, ignoring case.
func IsStopword(word string) bool {
	return englishStopwords[strings.ToLower(word)]
}

// IsStopwordIn reports whether word is a stopword of language, ignoring case.
// Unsupported languages use the English list.
func IsStopwordIn(language, word string) bool {
	return stopwordsFor(language)(strings.ToLower(word))
}

// RemoveStopwords drops English stopwords and any extra words from the
// whitespace-separated tokens of text. Matching ignores case; surviving
// tokens keep their case and are joined by single spaces.
func RemoveStopwords(text string, extra ...string) string {
	return RemoveStopwordsIn(DefaultLanguage, text, extra...)
}

// RemoveStopwordsIn is RemoveStopwords for the stopwords of language.
// Unsupported languages use the English list.
func RemoveStopwordsIn(language, text string, extra ...string) string {
	isStop := stopwordsFor(language)
	custom := make(map[string]bool, len(extra))
	for _, w := range extra {
		custom[strings.ToLower(w)] = true
	}

	fields := strings.Fields(text)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		lower := strings.ToLower(f)
		if isStop(lower) || custom[lower] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
