package classify

import (
	"regexp"
	"strings"
)

const UnknownCompany = "Unknown Company"

var (
	genericLocalPart = regexp.MustCompile(`(?i)^(?:noreply|no-reply|hiring|careers|jobs)(?:@|$)`)
	genericTeamName  = regexp.MustCompile(`(?i)^(?:noreply|no-reply|hiring|careers|jobs)\s+team$`)
	trailingDomain   = regexp.MustCompile(`@.*$`)
)

// CompanyName derives a display name from a From header value such as
// "Acme Careers <jobs@acme.com>" or a bare address.
func CompanyName(sender string) string {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return UnknownCompany
	}

	display, address := splitSender(sender)
	name := strings.TrimSpace(strings.Trim(display, `"'`))
	generic := genericTeamName.MatchString(name)
	name = genericLocalPart.ReplaceAllString(name, "")
	name = strings.TrimSpace(trailingDomain.ReplaceAllString(name, ""))

	if name == "" || generic {
		if domain := addressDomain(address); domain != "" {
			return domain
		}
	}
	if name == "" {
		return UnknownCompany
	}
	return name
}

// splitSender returns the text before the first '<' and the address inside
// the brackets, if any.
func splitSender(sender string) (string, string) {
	open := strings.Index(sender, "<")
	if open < 0 {
		return sender, ""
	}
	display := strings.TrimSpace(sender[:open])
	address := sender[open+1:]
	if end := strings.Index(address, ">"); end >= 0 {
		address = address[:end]
	}
	return display, strings.TrimSpace(address)
}

func addressDomain(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return ""
	}
	return strings.TrimSpace(address[at+1:])
}
