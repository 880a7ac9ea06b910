// Package provenance stamps cache artifacts with the git revision they were
// extracted at, so a stale design cache can be spotted later.
package provenance

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNoRepository is returned when dir is not inside a git work tree.
var ErrNoRepository = errors.New("not a git repository")

const shortLen = 7

// HeadRevision returns the commit hash HEAD points at in the repository
// containing dir. Parent directories are searched for .git.
func HeadRevision(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", ErrNoRepository
		}
		return "", fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("repository has no commits: %w", err)
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// Short abbreviates a revision for display.
func Short(rev string) string {
	if len(rev) <= shortLen {
		return rev
	}
	return rev[:shortLen]
}

// Stale reports whether recorded names a different commit than current.
// Unknown revisions on either side are never stale.
func Stale(recorded, current string) bool {
	if recorded == "" || current == "" {
		return false
	}
	return recorded != current
}
