package git

import (
	"context"
	"errors"
)

var ErrRepoNotFound = errors.New("repository not found")

// RepoInfo is the subset of repository metadata a project is built from.
// Languages are ordered by share of the codebase, largest first.
type RepoInfo struct {
	Name        string
	Description string
	HTMLURL     string
	Languages   []string
}

type RepoReader interface {
	Repository(ctx context.Context, owner, name string) (RepoInfo, error)
}
