package normalize

import (
	"strings"
	"unicode"

	"newsline/internal/domain/entity"
)

// categoryKeywords scores each candidate category by keyword-set membership
// against the concatenated title+description+url. Ties favor the earlier
// category in categoryOrder (arbitrary but deterministic).
var categoryKeywords = map[entity.Category][]string{
	entity.CategoryPolitics: {
		"election", "senate", "congress", "president", "parliament", "vote",
		"legislation", "policy", "campaign", "governor", "lawmaker",
	},
	entity.CategoryWorld: {
		"un ", "united nations", "summit", "embassy", "ceasefire", "treaty",
		"refugee", "border", "diplomat", "foreign minister",
	},
	entity.CategoryBusiness: {
		"stock", "market", "earnings", "ipo", "merger", "ceo", "inflation",
		"economy", "trade", "shares", "nasdaq", "dow jones",
	},
	entity.CategoryTech: {
		"ai", "software", "startup", "chip", "app", "cybersecurity", "robot",
		"smartphone", "silicon valley", "algorithm", "data breach",
	},
	entity.CategorySports: {
		"match", "tournament", "championship", "league", "coach", "playoff",
		"goal", "olympics", "score", "stadium",
	},
	entity.CategoryHealth: {
		"hospital", "vaccine", "disease", "outbreak", "fda", "patient",
		"virus", "clinical trial", "mental health", "surgeon",
	},
	entity.CategoryEntertainment: {
		"film", "movie", "album", "celebrity", "box office", "tv series",
		"concert", "oscar", "grammy", "hollywood",
	},
	entity.CategoryScience: {
		"study", "research", "nasa", "discovery", "telescope", "species",
		"climate change", "physics", "astronomy", "fossil",
	},
}

var categoryOrder = []entity.Category{
	entity.CategoryPolitics, entity.CategoryWorld, entity.CategoryBusiness,
	entity.CategoryTech, entity.CategorySports, entity.CategoryHealth,
	entity.CategoryEntertainment, entity.CategoryScience,
}

// Categorize scores title+description+url against each category's keyword
// set and returns the highest-scoring match, defaulting to CategoryOther.
// Keywords match whole words or word sequences, never parts of a word.
func Categorize(title, description, url string) entity.Category {
	words := strings.FieldsFunc(strings.ToLower(title+" "+description+" "+url), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	haystack := " " + strings.Join(words, " ") + " "

	best := entity.CategoryOther
	bestScore := 0
	for _, cat := range categoryOrder {
		score := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(haystack, " "+strings.TrimSpace(kw)+" ") {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = cat
		}
	}
	return best
}
