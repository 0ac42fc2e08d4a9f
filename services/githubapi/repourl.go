package githubapi

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	repoURLPattern  = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)
	fullNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

// IsFullName reports whether fullName is a plain owner/repo pair that can be put in an api path.
func IsFullName(fullName string) bool {
	return fullNamePattern.MatchString(fullName) && !strings.Contains(fullName, "..")
}

// ParseRepoURL extracts owner and repository name from a url like https://github.com/owner/repo.
func ParseRepoURL(repoURL string) (string, string, error) {
	trimmed := strings.TrimSuffix(repoURL, "/")

	matches := repoURLPattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return "", "", fmt.Errorf("'%s' is not a github repository url", repoURL)
	}

	return matches[1], matches[2], nil
}
