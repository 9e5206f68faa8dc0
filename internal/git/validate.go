package git

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// DefaultHostPrefix is the URL prefix every repository URL must start with
const DefaultHostPrefix = "https://github.com/"

var repoFormatRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// ValidateRepositoryFormat validates that a repository string is in the correct owner/repo format
func ValidateRepositoryFormat(repo string) error {
	if !repoFormatRegex.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %q - expected format: owner/repo", repo)
	}
	return nil
}

// ParseRepoURL strips hostPrefix from rawURL and returns the owner/repo it names.
// A trailing slash or .git suffix is tolerated.
func ParseRepoURL(rawURL, hostPrefix string) (models.RepoRef, error) {
	if hostPrefix == "" {
		hostPrefix = DefaultHostPrefix
	}

	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return models.RepoRef{}, fmt.Errorf("URL is required")
	}

	path, ok := strings.CutPrefix(trimmed, hostPrefix)
	if !ok {
		return models.RepoRef{}, fmt.Errorf("%q does not start with %s", trimmed, hostPrefix)
	}

	path = strings.TrimSuffix(path, "/")
	path = strings.TrimSuffix(path, ".git")

	if err := ValidateRepositoryFormat(path); err != nil {
		return models.RepoRef{}, err
	}

	return splitRepo(path), nil
}

// RepoURL builds the URL ParseRepoURL accepts for ref
func RepoURL(ref models.RepoRef, hostPrefix string) string {
	if hostPrefix == "" {
		hostPrefix = DefaultHostPrefix
	}
	return hostPrefix + ref.String()
}

func splitRepo(repo string) models.RepoRef {
	owner, name, _ := strings.Cut(repo, "/")
	return models.RepoRef{Owner: owner, Name: name}
}
