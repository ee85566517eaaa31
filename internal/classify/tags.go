package classify

import ahocorasick "github.com/cloudflare/ahocorasick"

type tagRule struct {
	keyword string
	tag     string
}

var tagRules = []tagRule{
	{"remote", "Remote"},
	{"full-time", "Full-time"},
	{"part-time", "Part-time"},
	{"urgent", "Urgent"},
	{"paid", "Paid"},
	{"summer", "Summer"},
	{"winter", "Winter"},
}

var tagMatcher = func() *ahocorasick.Matcher {
	keywords := make([]string, 0, len(tagRules))
	for _, rule := range tagRules {
		keywords = append(keywords, rule.keyword)
	}
	return ahocorasick.NewStringMatcher(keywords)
}()

// Tags returns the labels whose keyword occurs in text, in checklist order.
func Tags(text string) []string {
	found := make([]bool, len(tagRules))
	for _, hit := range tagMatcher.MatchThreadSafe([]byte(fold(text))) {
		if hit >= 0 && hit < len(found) {
			found[hit] = true
		}
	}

	tags := make([]string, 0, len(tagRules))
	for idx, rule := range tagRules {
		if found[idx] {
			tags = append(tags, rule.tag)
		}
	}
	return tags
}
