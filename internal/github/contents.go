package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/Attamusc/history-dates-cli/internal/logctx"
)

// FileRef identifies a file in a GitHub repository
type FileRef struct {
	Owner string
	Repo  string
	Path  string
	Ref   string // Branch, tag or SHA; default branch when empty
}

// String returns owner/repo/path, with @ref when a ref is set
func (ref FileRef) String() string {
	s := fmt.Sprintf("%s/%s/%s", ref.Owner, ref.Repo, ref.Path)
	if ref.Ref != "" {
		s += "@" + ref.Ref
	}
	return s
}

// ParseFileRef builds a FileRef from an "owner/repo" string and a path
func ParseFileRef(repo, path, ref string) (FileRef, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(repo), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return FileRef{}, fmt.Errorf("invalid repository %q: expected owner/repo", repo)
	}

	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return FileRef{}, errors.New("repository file path is required")
	}

	return FileRef{Owner: owner, Repo: name, Path: path, Ref: strings.TrimSpace(ref)}, nil
}

// FetchFile retrieves and decodes the content of a repository file
func FetchFile(ctx context.Context, client *github.Client, ref FileRef) (string, error) {
	logger := logctx.From(ctx)
	logger.Debug("Fetching repository file", "file", ref.String())

	var opts *github.RepositoryContentGetOptions
	if ref.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref.Ref}
	}

	file, dir, _, err := client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	if err != nil {
		logger.Debug("GitHub API contents fetch failed", "file", ref.String(), "error", err)

		// Check for specific error types and provide helpful error messages
		if enhancedErr := enhanceGitHubError(err, ref); enhancedErr != nil {
			return "", enhancedErr
		}

		return "", fmt.Errorf("failed to fetch %s: %w", ref.String(), err)
	}

	if file == nil {
		return "", fmt.Errorf("%s is a directory with %d entries, not a file", ref.String(), len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", ref.String(), err)
	}

	logger.Debug("Repository file fetched successfully", "file", ref.String(), "bytes", len(content))
	return content, nil
}

// Fetcher reads entry lists from repositories
type Fetcher struct {
	Client *github.Client
}

// FetchText fetches the file at path in repo ("owner/repo")
func (f Fetcher) FetchText(ctx context.Context, repo, path, ref string) (string, error) {
	fileRef, err := ParseFileRef(repo, path, ref)
	if err != nil {
		return "", err
	}
	return FetchFile(ctx, f.Client, fileRef)
}

// enhanceGitHubError checks for common GitHub API error conditions and provides helpful error messages
func enhanceGitHubError(err error, ref FileRef) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("GitHub API authentication failed for %s. Please check your GITHUB_TOKEN is valid", ref.String())

		case http.StatusForbidden:
			// Check if this might be an SSO authorization issue
			if strings.Contains(strings.ToLower(ghErr.Message), "sso") ||
				strings.Contains(strings.ToLower(ghErr.Message), "organization") {
				return fmt.Errorf("GitHub API access denied for %s. Your token may require SSO authorization for this organization. Visit: https://github.com/settings/tokens and authorize your token for SSO", ref.String())
			}

			return fmt.Errorf("GitHub API access denied for %s. Your token may not have sufficient permissions to read this repository", ref.String())

		case http.StatusNotFound:
			return fmt.Errorf("GitHub file %s not found. This could mean the repository is private and GITHUB_TOKEN is unset or lacks access, or the path doesn't exist", ref.String())
		}
	}

	// Check for timeout errors
	if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline exceeded") {
		return fmt.Errorf("GitHub API request timed out for %s. Please check your network connection and try again", ref.String())
	}

	// Return nil to indicate no enhancement was applied
	return nil
}
