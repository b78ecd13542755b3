package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"newsline/internal/domain/entity"
)

func TestExtractEntities_PersonPattern(t *testing.T) {
	entities := ExtractEntities("President Joe Biden unveiled a new climate plan today")

	found := false
	for _, e := range entities {
		if e.Text == "Joe Biden" && e.Type == entity.EntityPerson {
			found = true
		}
	}
	assert.True(t, found, "expected Joe Biden classified as PERSON, got %+v", entities)
}

func TestExtractEntities_OrgKeyword(t *testing.T) {
	entities := ExtractEntities("The United Nations Security Council met in New York")

	found := false
	for _, e := range entities {
		if e.Text == "United Nations" && e.Type == entity.EntityOrg {
			found = true
		}
	}
	assert.True(t, found, "expected United Nations classified as ORG, got %+v", entities)
}

func TestExtractEntities_BarePlaceNameIsLocation(t *testing.T) {
	entities := ExtractEntities("Gaza ceasefire talks resume after weeks of fighting")

	found := false
	for _, e := range entities {
		if e.Text == "Gaza" && e.Type == entity.EntityLocation {
			found = true
		}
	}
	assert.True(t, found, "expected Gaza classified as LOCATION, got %+v", entities)
}

func TestExtractEntities_Deduplicates(t *testing.T) {
	entities := ExtractEntities("Gaza Strip tensions rise as Gaza Strip talks stall")

	count := 0
	for _, e := range entities {
		if e.Text == "Gaza Strip" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
