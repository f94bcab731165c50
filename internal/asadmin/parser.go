package asadmin

import (
	"bufio"
	"fmt"
	"strings"
)

// Markers asadmin prints on successful list/get commands.
const (
	successMarker = "executed successfully"
	nothingMarker = "Nothing to list"
)

// Parser turns raw asadmin output into facts. Every method returns an error
// when the output matches none of the documented patterns; unrecognised
// output is never read as a negative answer.
type Parser interface {
	// DomainRunning reads list-domains output.
	DomainRunning(output, domain string) (bool, string, error)
	// ApplicationDeployed reads list-applications output.
	ApplicationDeployed(output, name string) (bool, string, error)
	// Property reads the value of key from get output.
	Property(output, key string) (string, error)
}

// TextParser implements Parser for the stock asadmin text output:
//
//	list-domains:      "domain1 running" / "domain1 not running"
//	list-applications: "hello  <web>" lines, or "Nothing to list."
//	get:               "<key>=<value>"
type TextParser struct{}

var _ Parser = TextParser{}

// DomainRunning finds the line naming domain. The substring "<domain> not"
// means stopped; "<domain> running" means running. A domain that is not
// listed at all is an error.
func (TextParser) DomainRunning(output, domain string) (bool, string, error) {
	notRunning := domain + " not"
	running := domain + " running"

	for _, line := range lines(output) {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != domain {
			continue
		}
		switch {
		case strings.Contains(line, notRunning):
			return false, line, nil
		case strings.Contains(line, running):
			return true, line, nil
		default:
			return false, line, fmt.Errorf("unrecognised status line for domain %q: %q", domain, line)
		}
	}

	return false, "", fmt.Errorf("domain %q not listed", domain)
}

// ApplicationDeployed reports whether any line's first field equals name.
// Matching the whole field keeps "hello" from matching "hello-admin".
func (TextParser) ApplicationDeployed(output, name string) (bool, string, error) {
	if !strings.Contains(output, successMarker) && !strings.Contains(output, nothingMarker) {
		return false, "", fmt.Errorf("list-applications output carries no success marker")
	}

	for _, line := range lines(output) {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == name {
			return true, line, nil
		}
	}
	return false, "", nil
}

// Property returns the value printed for key.
func (TextParser) Property(output, key string) (string, error) {
	prefix := key + "="
	for _, line := range lines(output) {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), nil
		}
	}
	return "", fmt.Errorf("property %q not present in output", key)
}

// ParseBool accepts exactly "true" or "false".
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected true or false, got %q", value)
	}
}

func lines(output string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
