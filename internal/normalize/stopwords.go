package normalize

// stopWords are dropped before fingerprint tokenization and n-gram
// capitalization scanning — common function words carry no topical signal.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"this": true, "that": true, "these": true, "those": true, "it": true,
	"its": true, "their": true, "his": true, "her": true, "he": true, "she": true,
	"they": true, "we": true, "you": true, "who": true, "what": true, "when": true,
	"where": true, "why": true, "how": true, "will": true, "would": true,
	"could": true, "should": true, "can": true, "may": true, "might": true,
	"not": true, "no": true, "after": true, "before": true, "over": true,
	"into": true, "out": true, "up": true, "down": true, "about": true,
	"amid": true, "against": true,
}

// newsVerbs are high-frequency reporting verbs that dominate headline
// tokens without distinguishing one event from another; dropped from
// fingerprint construction (§4.2).
var newsVerbs = map[string]bool{
	"announces": true, "announced": true, "says": true, "said": true,
	"reports": true, "reported": true, "unveils": true, "unveiled": true,
	"warns": true, "warned": true, "claims": true, "claimed": true,
	"vows": true, "vowed": true, "urges": true, "urged": true,
	"slams": true, "slammed": true, "blasts": true, "hails": true,
	"launches": true, "launched": true, "confirms": true, "confirmed": true,
	"denies": true, "denied": true, "faces": true,
	"begins": true, "began": true, "begin": true,
	"starts": true, "started": true, "start": true,
	"ends": true, "ended": true, "resumes": true, "resumed": true,
}

func isStopWord(token string) bool {
	return stopWords[token]
}

func isNewsVerb(token string) bool {
	return newsVerbs[token]
}
