package clustering

import (
	"strings"

	"newsline/internal/domain/entity"
)

// dominantEntity returns the first LOCATION or PERSON entity in the list,
// preferring LOCATION — the §4.3 Step 3 "dominant entity" used to detect
// two similarly-worded but unrelated stories (e.g. two different wars
// sharing the verb "launches").
func dominantEntity(entities []entity.ExtractedEntity) (string, bool) {
	var person string
	for _, e := range entities {
		if e.Type == entity.EntityLocation {
			return e.Text, true
		}
		if e.Type == entity.EntityPerson && person == "" {
			person = e.Text
		}
	}
	if person != "" {
		return person, true
	}
	return "", false
}

// topicConflict implements the precise formulation chosen for §4.3 Step 3's
// "partially implicit" rule (§9 Open Questions): an article's dominant
// LOCATION/PERSON entity conflicts with a candidate story if it is present,
// differs from the story's dominant entity, and does not appear anywhere in
// the story's title — i.e. the two have no textual overlap tying them to
// the same place or figure.
func topicConflict(articleEntities []entity.ExtractedEntity, storyTitle string, storyEntities []entity.ExtractedEntity) bool {
	articleDominant, ok := dominantEntity(articleEntities)
	if !ok {
		return false
	}
	storyDominant, ok := dominantEntity(storyEntities)
	if !ok {
		return false
	}
	if strings.EqualFold(articleDominant, storyDominant) {
		return false
	}
	if strings.Contains(strings.ToLower(storyTitle), strings.ToLower(articleDominant)) {
		return false
	}
	return true
}
