// Where: deploy/internal/infra/git/revision.go
// What: Source revision lookup for the default image version tag.
// Why: Read HEAD without depending on a git binary being installed.
package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

const shortLength = 7

var errEmptyRevision = errors.New("head revision is empty")

// ShortRevision returns the abbreviated commit hash HEAD points at for the
// repository containing dir. Parent directories are searched for .git.
func ShortRevision(dir string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve head: %w", err)
	}
	hash := head.Hash().String()
	if head.Hash().IsZero() || hash == "" {
		return "", errEmptyRevision
	}
	if len(hash) > shortLength {
		hash = hash[:shortLength]
	}
	return hash, nil
}

// RevisionFunc binds ShortRevision to dir.
func RevisionFunc(dir string) func() (string, error) {
	return func() (string, error) {
		return ShortRevision(dir)
	}
}
