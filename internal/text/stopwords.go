package text

import "strings"

// English stop words, essentially the classic analyzer list plus the
// pronouns and auxiliaries that dominate short conversational posts.
var englishStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about after all also an and any are as at be because been before
		being but by can could did do does doing down for from had has have
		having he her here hers him his how i if in into is it its just me
		more most my no nor not now of off on once only or other our ours
		out over own she should so some such than that the their theirs them
		then there these they this those through to too under until up very
		was we were what when where which while who whom why will with would
		you your yours
	`) {
		englishStopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether the word is an English stop word. The check is
// case-insensitive.
func IsStopWord(word string) bool {
	_, ok := englishStopWords[strings.ToLower(word)]
	return ok
}
