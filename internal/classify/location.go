package classify

import (
	"regexp"
	"strings"
)

const RemoteLocation = "Remote"

var locationPattern = regexp.MustCompile(`(?i)\b(location|based in|office in|remote|hybrid)[\s:]*([^.]*)`)

// Location extracts a place from snippet. A "remote" cue stands for itself;
// every other cue introduces the text that follows it.
func Location(snippet string) string {
	if match := locationPattern.FindStringSubmatch(snippet); match != nil {
		if strings.EqualFold(match[1], "remote") {
			return RemoteLocation
		}
		if place := firstClause(match[2]); place != "" {
			return place
		}
	}
	if strings.Contains(strings.ToLower(snippet), "remote") {
		return RemoteLocation
	}
	return ""
}

func firstClause(value string) string {
	value = strings.TrimSpace(value)
	if cut := strings.IndexAny(value, ",\r\n"); cut >= 0 {
		value = value[:cut]
	}
	return strings.TrimSpace(value)
}
