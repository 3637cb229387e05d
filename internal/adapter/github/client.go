package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	portgit "github.com/portfolio/projects-api/internal/port/git"
)

var _ portgit.RepoReader = (*Client)(nil)

type Client struct {
	gh *github.Client
}

// NewClient builds a GitHub client. An empty token yields an anonymous,
// rate-limited client.
func NewClient(token string) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	return &Client{gh: github.NewClient(httpClient)}
}

// NewFromGitHub wraps an existing go-github client (used for custom base URLs).
func NewFromGitHub(gh *github.Client) *Client {
	return &Client{gh: gh}
}

func (c *Client) Repository(ctx context.Context, owner, name string) (portgit.RepoInfo, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return portgit.RepoInfo{}, translate(err)
	}

	langs, _, err := c.gh.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		return portgit.RepoInfo{}, translate(err)
	}

	languages := orderLanguages(langs)
	if len(languages) == 0 && repo.GetLanguage() != "" {
		languages = []string{repo.GetLanguage()}
	}

	return portgit.RepoInfo{
		Name:        repo.GetName(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		Languages:   languages,
	}, nil
}

// orderLanguages sorts by byte count, largest first, name as tie-break.
func orderLanguages(langs map[string]int) []string {
	out := make([]string, 0, len(langs))
	for name := range langs {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		if langs[out[i]] != langs[out[j]] {
			return langs[out[i]] > langs[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func translate(err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return portgit.ErrRepoNotFound
	}
	return fmt.Errorf("github: %w", err)
}
