package entity

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases s and collapses runs of non-alphanumeric characters
// into a single hyphen, trimming leading/trailing hyphens.
func slugify(s string) string {
	s = strings.ToLower(s)
	s = slugNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BuildArticleID derives the article id from (source, url). It is a pure
// function: the same pair always produces the same id, which is what lets
// re-ingestion overwrite the existing document instead of inserting a
// duplicate.
func BuildArticleID(source, url string) string {
	sum := md5.Sum([]byte(url))
	return fmt.Sprintf("%s_%s", slugify(source), hex.EncodeToString(sum[:])[:12])
}

const storyIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewStoryID generates a fresh story cluster id, timestamped to the second
// so ids sort chronologically, with a short random suffix to disambiguate
// stories created within the same second.
func NewStoryID(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = storyIDAlphabet[rand.Intn(len(storyIDAlphabet))]
	}
	return fmt.Sprintf("story_%s_%s", now.UTC().Format("20060102_150405"), string(suffix))
}
