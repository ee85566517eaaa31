package classify

import (
	"regexp"
	"strings"
)

const maxRequirements = 3

var (
	salaryPattern = regexp.MustCompile(
		`\$\d[\d,]*[kK]?(?:[-–]\$?\d[\d,]*[kK]?)?|\b\d+[kK](?:[-–]\d+[kK])?\b`,
	)
	bulletPattern = regexp.MustCompile(`[•·▪▫‣⁃]\s*([^•·▪▫‣⁃\n]+)`)
	urlPattern    = regexp.MustCompile(`(?i)https?://\S+`)
)

// Salary returns the first compensation-like token in snippet as written.
func Salary(snippet string) string {
	return strings.TrimRight(salaryPattern.FindString(snippet), ",")
}

// Requirements collects up to three bullet items in order of appearance.
func Requirements(snippet string) []string {
	requirements := make([]string, 0, maxRequirements)
	for _, match := range bulletPattern.FindAllStringSubmatch(snippet, -1) {
		item := strings.TrimSpace(match[1])
		if item == "" {
			continue
		}
		requirements = append(requirements, item)
		if len(requirements) == maxRequirements {
			break
		}
	}
	return requirements
}

// ApplicationURL returns the first http(s) URL in snippet.
func ApplicationURL(snippet string) string {
	return urlPattern.FindString(snippet)
}
