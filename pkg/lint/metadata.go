package lint

import (
	"fmt"
	"strings"
)

// DefaultDocsBaseURL is the hosted documentation site.
const DefaultDocsBaseURL = "https://sniff.leapstack.dev/docs/rules"

// DocsBaseURL can be overridden via config for local/offline mode.
var DocsBaseURL = DefaultDocsBaseURL

// BuildDocURL constructs a documentation URL for a rule.
// "CodingStandard.Arrays.Array" maps to ".../codingstandard/arrays/array".
func BuildDocURL(ruleID string) string {
	path := strings.ReplaceAll(strings.ToLower(ruleID), ".", "/")
	return fmt.Sprintf("%s/%s", DocsBaseURL, path)
}

// SetDocsBaseURL overrides the default documentation base URL.
// Useful for offline mode or custom documentation sites.
func SetDocsBaseURL(url string) {
	DocsBaseURL = strings.TrimSuffix(url, "/")
}

// ResetDocsBaseURL resets to the default documentation URL.
func ResetDocsBaseURL() {
	DocsBaseURL = DefaultDocsBaseURL
}

// SplitID splits a rule ID into its standard, group and name.
func SplitID(id string) (standard, group, name string, ok bool) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
