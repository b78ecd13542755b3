package normalize

import (
	"regexp"
	"strings"

	"newsline/internal/domain/entity"
)

// locationKeywords and orgKeywords classify capitalized n-grams by a
// trailing or leading keyword — e.g. "United Nations" → ORG via "Nations",
// "Gaza Strip" → LOCATION via "Strip". Bare proper nouns that match neither
// map fall back to OTHER unless the PERSON pattern matches first.
var locationKeywords = map[string]bool{
	"city": true, "county": true, "province": true, "state": true,
	"republic": true, "kingdom": true, "strip": true, "territory": true,
	"coast": true, "valley": true, "island": true, "islands": true,
	"region": true, "border": true,
}

var orgKeywords = map[string]bool{
	"inc": true, "corp": true, "corporation": true, "company": true,
	"group": true, "nations": true, "union": true, "council": true,
	"authority": true, "ministry": true, "department": true, "agency": true,
	"organization": true, "organisation": true, "party": true, "bank": true,
	"court": true, "administration": true, "commission": true,
}

// knownPlaces is a small gazetteer of countries, regions, and capitals that
// keyword-suffix matching alone can't classify — a bare place name like
// "Gaza" or "Ukraine" carries no keyword such as "Strip" or "Republic" to
// key off of, but still needs to register as LOCATION so it survives into
// the fingerprint's merged entity set (§4.2).
var knownPlaces = map[string]bool{
	"gaza": true, "ukraine": true, "russia": true, "israel": true,
	"iran": true, "iraq": true, "china": true, "japan": true, "india": true,
	"germany": true, "france": true, "britain": true, "america": true,
	"taiwan": true, "syria": true, "yemen": true, "sudan": true,
	"lebanon": true, "egypt": true, "turkey": true, "poland": true,
	"mexico": true, "canada": true, "brazil": true, "australia": true,
	"italy": true, "spain": true, "pakistan": true, "afghanistan": true,
	"venezuela": true, "nigeria": true, "somalia": true, "ethiopia": true,
	"myanmar": true, "korea": true, "africa": true, "europe": true, "asia": true,
	"london": true, "washington": true, "moscow": true, "beijing": true,
	"tokyo": true, "paris": true, "berlin": true, "kyiv": true,
	"tehran": true, "baghdad": true, "jerusalem": true, "cairo": true,
}

var capitalizedRun = regexp.MustCompile(`\b([A-Z][a-zA-Z'.-]*(?:\s+[A-Z][a-zA-Z'.-]*){0,3})\b`)

// personPattern matches the "Title Firstname Lastname" shape: a leading
// honorific followed by two capitalized tokens.
var personPattern = regexp.MustCompile(`\b(?:President|Prime Minister|Senator|Governor|Minister|Dr|Mr|Mrs|Ms|Gen|Sen|Rep|Judge|Chancellor|King|Queen)\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})\b`)

// ExtractEntities pulls candidate named entities out of text using
// deterministic rules: capitalized n-grams filtered against a stopword
// list, classified by keyword maps for LOCATION/ORG, and the
// "Title Firstname Lastname" pattern for PERSON. No external calls, no
// ML model — accuracy is adequate because the clustering similarity
// signal multiplexes title tokens and entities rather than trusting
// either alone.
func ExtractEntities(text string) []entity.ExtractedEntity {
	seen := make(map[string]bool)
	var out []entity.ExtractedEntity

	for _, m := range personPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entity.ExtractedEntity{Text: name, Type: entity.EntityPerson})
	}

	for _, m := range capitalizedRun.FindAllString(text, -1) {
		candidate := strings.TrimSpace(m)
		key := strings.ToLower(candidate)
		if seen[key] {
			continue
		}
		words := strings.Fields(candidate)
		if len(words) == 1 && isStopWord(strings.ToLower(words[0])) {
			continue
		}
		last := strings.ToLower(words[len(words)-1])
		first := strings.ToLower(words[0])
		kind := entity.EntityOther
		switch {
		case knownPlaces[key] || knownPlaces[last]:
			kind = entity.EntityLocation
		case locationKeywords[last]:
			kind = entity.EntityLocation
		case orgKeywords[last] || orgKeywords[first]:
			kind = entity.EntityOrg
		}
		seen[key] = true
		out = append(out, entity.ExtractedEntity{Text: candidate, Type: kind})
	}

	return out
}
