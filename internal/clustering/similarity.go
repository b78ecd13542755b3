package clustering

import (
	"strings"

	"newsline/internal/domain/entity"
)

// jaccard computes the Jaccard index of two token sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if b[tok] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(title string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(title)) {
		set[tok] = true
	}
	return set
}

func entityTextSet(entities []entity.ExtractedEntity) map[string]bool {
	set := make(map[string]bool)
	for _, e := range entities {
		if e.Type == entity.EntityPerson || e.Type == entity.EntityOrg || e.Type == entity.EntityLocation {
			set[strings.ToLower(e.Text)] = true
		}
	}
	return set
}

func sharedEntityCount(a, b map[string]bool) int {
	count := 0
	for tok := range a {
		if b[tok] {
			count++
		}
	}
	return count
}

// similarity computes the §4.3 Step 2 score: Jaccard over tokenized titles
// plus 0.1 per shared PERSON/ORG/LOCATION entity, capped at 1.0.
func similarity(articleTitle string, articleEntities []entity.ExtractedEntity, storyTitle string, storyEntities []entity.ExtractedEntity) (score float64, sharedEntities int) {
	score = jaccard(tokenSet(articleTitle), tokenSet(storyTitle))
	shared := sharedEntityCount(entityTextSet(articleEntities), entityTextSet(storyEntities))
	score += 0.1 * float64(shared)
	if score > 1.0 {
		score = 1.0
	}
	return score, shared
}
