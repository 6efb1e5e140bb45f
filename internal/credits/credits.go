// Package credits manages the free-use balance of scoring accounts.
package credits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/observability"
)

// PlanFree is the only plan that receives the daily top-up.
const PlanFree = "free"

// ErrNoCredits is returned by Charge when the balance is exhausted.
var ErrNoCredits = errors.New("no free uses remaining")

// Account is the credit view of a user.
type Account struct {
	Plan         string     `json:"plan"`
	Unlimited    bool       `json:"unlimited"`
	Remaining    int        `json:"free_uses_remaining"`
	LastRefillAt *time.Time `json:"last_free_refill_at,omitempty"`
}

// Store persists balances. ConsumeFreeUse decrements atomically and returns
// -1 without decrementing when nothing is left.
type Store interface {
	GetCreditAccount(ctx context.Context, userID uuid.UUID) (*Account, error)
	SetRemainingAndMarkRefill(ctx context.Context, userID uuid.UUID, remaining int, at time.Time) (int, error)
	ConsumeFreeUse(ctx context.Context, userID uuid.UUID) (int, error)
}

// Policy holds the top-up amounts.
type Policy struct {
	DailyFree   int
	RolloverCap int
}

// TopUp computes the balance after the daily refill for now. changed is
// false when nothing should be written: unlimited or non-free plans, a
// balance already at the cap, a refill earlier on the same UTC day, or a
// zero daily amount.
func (p Policy) TopUp(acct Account, now time.Time) (remaining int, changed bool) {
	remaining = acct.Remaining
	plan := strings.ToLower(acct.Plan)
	if plan == "" {
		plan = PlanFree
	}
	if acct.Unlimited || plan != PlanFree {
		return remaining, false
	}
	if remaining >= p.RolloverCap {
		return remaining, false
	}
	if acct.LastRefillAt != nil && sameUTCDay(*acct.LastRefillAt, now) {
		return remaining, false
	}

	next := min(remaining+p.DailyFree, p.RolloverCap)
	if next == remaining {
		return remaining, false
	}
	return next, true
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Service applies the policy against a Store.
type Service struct {
	store  Store
	policy Policy
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a credit service. A nil logger is replaced with a no-op.
func NewService(store Store, policy Policy, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		policy: policy,
		logger: observability.OrNop(logger),
		now:    time.Now,
	}
}

// EnsureDailyTopUp refills a free account at most once per UTC day and
// returns the current balance. Unknown users have a balance of zero.
func (s *Service) EnsureDailyTopUp(ctx context.Context, userID uuid.UUID) (int, error) {
	acct, err := s.store.GetCreditAccount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load credits: %w", err)
	}
	if acct == nil {
		return 0, nil
	}

	next, changed := s.policy.TopUp(*acct, s.now())
	if !changed {
		return acct.Remaining, nil
	}

	stored, err := s.store.SetRemainingAndMarkRefill(ctx, userID, next, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to top up credits: %w", err)
	}
	s.logger.Info("daily credits added",
		zap.String("user_id", userID.String()),
		zap.Int("before", acct.Remaining),
		zap.Int("after", stored))
	return stored, nil
}

// Consume decrements one credit and returns the remaining balance, or -1
// when none were left.
func (s *Service) Consume(ctx context.Context, userID uuid.UUID) (int, error) {
	remaining, err := s.store.ConsumeFreeUse(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to consume credit: %w", err)
	}
	return remaining, nil
}

// Charge is the gate used before a scoring call. Unlimited accounts pass
// without a decrement; everyone else gets the daily top-up and then pays
// one credit. It returns ErrNoCredits when the balance is empty.
func (s *Service) Charge(ctx context.Context, userID uuid.UUID) (int, error) {
	acct, err := s.store.GetCreditAccount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load credits: %w", err)
	}
	if acct != nil && acct.Unlimited {
		return acct.Remaining, nil
	}
	if _, err := s.EnsureDailyTopUp(ctx, userID); err != nil {
		return 0, err
	}

	remaining, err := s.Consume(ctx, userID)
	if err != nil {
		return 0, err
	}
	if remaining < 0 {
		return 0, ErrNoCredits
	}
	return remaining, nil
}
