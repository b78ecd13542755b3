package normalize

import (
	"regexp"
	"sort"
	"strings"

	"newsline/internal/domain/entity"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases and splits s into alphanumeric tokens.
func tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

// eligibleForFingerprint reports whether an entity kind is merged into the
// fingerprint token set alongside title tokens (§4.2).
func eligibleForFingerprint(k entity.EntityKind) bool {
	return k == entity.EntityPerson || k == entity.EntityOrg || k == entity.EntityLocation
}

// Fingerprint builds the ordered, underscore-joined triple of tokens used
// as the primary O(1) clustering match key. It tokenizes the title,
// drops stopwords, news verbs, and short tokens (length ≤ 4), keeps up to
// five remaining tokens, merges in the lowercased text of PERSON/ORG/
// LOCATION entities, sorts the merged set, and joins the first three.
func Fingerprint(title string, entities []entity.ExtractedEntity) string {
	var titleTokens []string
	for _, tok := range tokenize(title) {
		if len(tok) <= 4 {
			continue
		}
		if isStopWord(tok) || isNewsVerb(tok) {
			continue
		}
		titleTokens = append(titleTokens, tok)
		if len(titleTokens) == 5 {
			break
		}
	}

	merged := make(map[string]bool)
	for _, tok := range titleTokens {
		merged[tok] = true
	}
	for _, e := range entities {
		if !eligibleForFingerprint(e.Type) {
			continue
		}
		merged[strings.ToLower(e.Text)] = true
	}

	sorted := make([]string, 0, len(merged))
	for tok := range merged {
		sorted = append(sorted, tok)
	}
	sort.Strings(sorted)

	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	return strings.Join(sorted, "_")
}
