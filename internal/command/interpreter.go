package command

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
	"github.com/vedantkasargod/walmart-x1/internal/review"
)

// ActionClassifier maps a free-text follow-up command onto one structured
// action, given the current session contents. Implementations receive only
// an id/name/quantity projection of the items.
type ActionClassifier interface {
	ClassifyCommand(ctx context.Context, command string, current []domain.CandidateItem) (*domain.CommandAction, error)
}

// Outcome reports what the command did to the session. For ActionConfirmAdd
// the session is untouched; Items carries the reviewed list so the caller can
// run the transition into the cart.
type Outcome struct {
	Action  domain.ActionKind      `json:"action"`
	Items   []domain.CandidateItem `json:"items"`
	Message string                 `json:"message"`
}

func NewInterpreter(classifier ActionClassifier, reviews review.Manager, log *zap.Logger) *Interpreter {
	return &Interpreter{
		classifier: classifier,
		reviews:    reviews,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}
}

type Interpreter struct {
	classifier ActionClassifier
	reviews    review.Manager
	log        *zap.Logger

	// Session saves are full-record overwrites with no compare-and-swap, so
	// the read-modify-write below is serialized per user.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (i *Interpreter) userLock(userID string) *sync.Mutex {
	i.mu.Lock()
	defer i.mu.Unlock()
	l, ok := i.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		i.locks[userID] = l
	}
	return l
}

// Apply interprets one follow-up command against the user's live review
// session. The session is the sole source of truth: it is re-read on every
// command, never cached.
func (i *Interpreter) Apply(ctx context.Context, userID, command string) (*Outcome, error) {
	lock := i.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	items, err := i.reviews.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	action, err := i.classifier.ClassifyCommand(ctx, command, items)
	if err != nil {
		return nil, fmt.Errorf("%w: command classifier: %v", domain.ErrExternalService, err)
	}

	i.log.Info("classified session command",
		zap.String("user_id", userID),
		zap.String("action", string(action.Kind)),
		zap.Int64("item_id", action.ItemID))

	switch action.Kind {
	case domain.ActionRemove:
		kept := make([]domain.CandidateItem, 0, len(items))
		for _, item := range items {
			if item.ID != action.ItemID {
				kept = append(kept, item)
			}
		}
		if err := i.reviews.Save(ctx, userID, kept); err != nil {
			return nil, fmt.Errorf("save review session: %w", err)
		}
		return &Outcome{
			Action:  domain.ActionRemove,
			Items:   kept,
			Message: "Removed it from your list.",
		}, nil

	case domain.ActionUpdateQuantity:
		// Quantity is passed through unvalidated; whether non-positive
		// values should be rejected is an open product call.
		updated := make([]domain.CandidateItem, len(items))
		copy(updated, items)
		for idx := range updated {
			if updated[idx].ID == action.ItemID {
				updated[idx].Quantity = action.Quantity
			}
		}
		if err := i.reviews.Save(ctx, userID, updated); err != nil {
			return nil, fmt.Errorf("save review session: %w", err)
		}
		return &Outcome{
			Action:  domain.ActionUpdateQuantity,
			Items:   updated,
			Message: "Updated the quantity.",
		}, nil

	case domain.ActionConfirmAdd:
		return &Outcome{
			Action:  domain.ActionConfirmAdd,
			Items:   items,
			Message: "Moving your list to the cart.",
		}, nil

	default:
		return &Outcome{
			Action:  domain.ActionUnknown,
			Items:   items,
			Message: "Sorry, I didn't catch that. You can remove items, change quantities, or confirm.",
		}, nil
	}
}
