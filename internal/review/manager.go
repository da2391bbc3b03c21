package review

import (
	"context"
	"errors"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// ErrNoSession is returned by Get when the user has no live review session,
// either because none was created or because it expired.
var ErrNoSession = errors.New("no active review session")

// Manager owns the user's provisional, AI-curated candidate list pending
// confirmation. Save is a full-record overwrite: two concurrent saves for the
// same user race last-write-wins with no merge. Callers doing
// read-modify-write must serialize themselves if that matters to them.
type Manager interface {
	Save(ctx context.Context, userID string, items []domain.CandidateItem) error
	Get(ctx context.Context, userID string) ([]domain.CandidateItem, error)
	Clear(ctx context.Context, userID string) error
}
