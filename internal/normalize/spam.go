package normalize

import "strings"

// minTitleLength rejects low-signal entries (teasers, placeholders).
const minTitleLength = 10

// spamURLPatterns are low-signal restaurant-listing and directory URL
// fragments that show up in RSS entries but carry no news content.
var spamURLPatterns = []string{
	"/good-food/", "/restaurants/", "/restaurant-guide/", "/where-to-eat/",
	"/dining/", "/recipes/", "/coupons/", "/classifieds/",
}

// spamDomains are low-signal domains filtered regardless of path.
var spamDomains = map[string]bool{
	"prnewswire.com": true,
	"businesswire.com": true,
}

// IsSpam reports whether an entry should be rejected before it reaches
// entity extraction or storage: a too-short title, a restaurant-listing
// style URL, or a known low-signal domain.
func IsSpam(title, url string) bool {
	if len(strings.TrimSpace(title)) < minTitleLength {
		return true
	}
	lower := strings.ToLower(url)
	for _, pattern := range spamURLPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	for domain := range spamDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}
