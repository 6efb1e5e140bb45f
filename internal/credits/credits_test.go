package credits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	accounts map[uuid.UUID]*Account
	writes   int
	getErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[uuid.UUID]*Account{}}
}

func (f *fakeStore) GetCreditAccount(_ context.Context, id uuid.UUID) (*Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	acct, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *acct
	return &cp, nil
}

func (f *fakeStore) SetRemainingAndMarkRefill(_ context.Context, id uuid.UUID, remaining int, at time.Time) (int, error) {
	f.writes++
	acct := f.accounts[id]
	acct.Remaining = remaining
	acct.LastRefillAt = &at
	return remaining, nil
}

func (f *fakeStore) ConsumeFreeUse(_ context.Context, id uuid.UUID) (int, error) {
	acct, ok := f.accounts[id]
	if !ok || acct.Remaining <= 0 {
		return -1, nil
	}
	acct.Remaining--
	return acct.Remaining, nil
}

func timePtr(t time.Time) *time.Time { return &t }

func TestPolicy_TopUp(t *testing.T) {
	policy := Policy{DailyFree: 3, RolloverCap: 20}
	now := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		acct        Account
		want        int
		wantChanged bool
	}{
		{"never refilled", Account{Plan: "free", Remaining: 0}, 3, true},
		{"empty plan counts as free", Account{Remaining: 2}, 5, true},
		{"plan is case-insensitive", Account{Plan: "FREE", Remaining: 1}, 4, true},
		{"capped at rollover", Account{Plan: "free", Remaining: 19}, 20, true},
		{"at cap", Account{Plan: "free", Remaining: 20}, 20, false},
		{"above cap never decreases", Account{Plan: "free", Remaining: 25}, 25, false},
		{"unlimited", Account{Plan: "free", Unlimited: true, Remaining: 0}, 0, false},
		{"paid plan", Account{Plan: "pro", Remaining: 1}, 1, false},
		{"refilled earlier today", Account{Plan: "free", Remaining: 1, LastRefillAt: timePtr(now.Add(-time.Hour))}, 1, false},
		{"refilled yesterday", Account{Plan: "free", Remaining: 1, LastRefillAt: timePtr(now.Add(-2 * time.Hour))}, 4, true},
		{
			name: "same instant in another zone is still today in UTC",
			acct: Account{Plan: "free", Remaining: 1, LastRefillAt: timePtr(now.Add(-time.Hour).In(time.FixedZone("PST", -8*3600)))},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := policy.TopUp(tt.acct, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestPolicy_TopUp_ZeroDailyDoesNotStamp(t *testing.T) {
	got, changed := Policy{DailyFree: 0, RolloverCap: 20}.TopUp(Account{Plan: "free", Remaining: 2}, time.Now())
	assert.Equal(t, 2, got)
	assert.False(t, changed)
}

func TestService_EnsureDailyTopUp(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.accounts[id] = &Account{Plan: "free", Remaining: 1}

	svc := NewService(store, Policy{DailyFree: 3, RolloverCap: 20}, nil)
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	got, err := svc.EnsureDailyTopUp(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
	assert.Equal(t, 1, store.writes)
	require.NotNil(t, store.accounts[id].LastRefillAt)
	assert.Equal(t, day, *store.accounts[id].LastRefillAt)

	// Second call on the same day is a no-op.
	got, err = svc.EnsureDailyTopUp(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
	assert.Equal(t, 1, store.writes)

	// Next UTC day refills again.
	svc.now = func() time.Time { return day.Add(24 * time.Hour) }
	got, err = svc.EnsureDailyTopUp(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 2, store.writes)
}

func TestService_EnsureDailyTopUp_UnknownUser(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, Policy{DailyFree: 3, RolloverCap: 20}, nil)

	got, err := svc.EnsureDailyTopUp(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	assert.Zero(t, store.writes)
}

func TestService_EnsureDailyTopUp_StoreError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	svc := NewService(store, Policy{DailyFree: 3, RolloverCap: 20}, nil)

	_, err := svc.EnsureDailyTopUp(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestService_Consume(t *testing.T) {
	store := newFakeStore()
	id := uuid.New()
	store.accounts[id] = &Account{Plan: "free", Remaining: 1}
	svc := NewService(store, Policy{}, nil)

	got, err := svc.Consume(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = svc.Consume(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, -1, got)
	assert.Equal(t, 0, store.accounts[id].Remaining)
}

func TestService_Charge(t *testing.T) {
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		acct          *Account
		wantRemaining int
		wantErr       error
	}{
		{"refills then charges", &Account{Plan: "free", Remaining: 0}, 2, nil},
		{"already refilled and empty", &Account{Plan: "free", Remaining: 0, LastRefillAt: timePtr(day)}, 0, ErrNoCredits},
		{"unlimited is not charged", &Account{Plan: "free", Unlimited: true, Remaining: 5}, 5, nil},
		{"paid plan pays from its allowance", &Account{Plan: "pro", Remaining: 10}, 9, nil},
		{"empty paid plan gets no daily top-up", &Account{Plan: "pro", Remaining: 0}, 0, ErrNoCredits},
		{"unknown user", nil, 0, ErrNoCredits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			id := uuid.New()
			if tt.acct != nil {
				store.accounts[id] = tt.acct
			}
			svc := NewService(store, Policy{DailyFree: 3, RolloverCap: 20}, nil)
			svc.now = func() time.Time { return day }

			got, err := svc.Charge(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, got)
		})
	}
}
