package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// DetectRepository finds the GitHub repository of the origin remote of the
// git checkout containing the current directory.
func DetectRepository() (models.RepoRef, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return models.RepoRef{}, fmt.Errorf("failed to get current working directory: %w", err)
	}
	return DetectRepositoryFrom(cwd)
}

// DetectRepositoryFrom is DetectRepository starting the search at dir
func DetectRepositoryFrom(dir string) (models.RepoRef, error) {
	gitConfigPath, err := findGitConfig(dir)
	if err != nil {
		return models.RepoRef{}, err
	}

	content, err := os.ReadFile(gitConfigPath)
	if err != nil {
		return models.RepoRef{}, fmt.Errorf("failed to read git config: %w", err)
	}

	remote := originURL(string(content))
	if remote == "" {
		return models.RepoRef{}, fmt.Errorf("no origin remote found in git config")
	}

	ref, ok := extractRepoFromURL(remote)
	if !ok {
		return models.RepoRef{}, fmt.Errorf("failed to extract owner/repo from URL: %s", remote)
	}

	return ref, nil
}

// findGitConfig locates .git/config by searching upward from dir
func findGitConfig(dir string) (string, error) {
	for i := 0; i < 10; i++ {
		configPath := filepath.Join(dir, ".git", "config")
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no .git/config found - not in a git repository")
}

// originURL returns the url of the [remote "origin"] section, or ""
func originURL(config string) string {
	inOrigin := false

	for _, line := range strings.Split(config, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") {
			inOrigin = trimmed == `[remote "origin"]`
			continue
		}

		if !inOrigin {
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if ok && strings.TrimSpace(key) == "url" {
			return strings.TrimSpace(value)
		}
	}

	return ""
}

// extractRepoFromURL converts HTTPS and SSH GitHub remotes to a RepoRef
//   - https://github.com/owner/repo(.git)
//   - git@github.com:owner/repo(.git)
func extractRepoFromURL(remote string) (models.RepoRef, bool) {
	var repo string

	switch {
	case strings.HasPrefix(remote, "https://") || strings.HasPrefix(remote, "http://"):
		idx := strings.Index(remote, "github.com/")
		if idx == -1 {
			return models.RepoRef{}, false
		}
		repo = remote[idx+len("github.com/"):]
	case strings.HasPrefix(remote, "git@github.com:"):
		repo = strings.TrimPrefix(remote, "git@github.com:")
	default:
		return models.RepoRef{}, false
	}

	repo = strings.TrimSuffix(repo, "/")
	repo = strings.TrimSuffix(repo, ".git")
	if ValidateRepositoryFormat(repo) != nil {
		return models.RepoRef{}, false
	}

	return splitRepo(repo), true
}
