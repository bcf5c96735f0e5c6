package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	identitymodels "campusconnect/internal/identity/models"
	identitystore "campusconnect/internal/identity/store"
	"campusconnect/internal/registration/models"
	registrationstore "campusconnect/internal/registration/store"
	id "campusconnect/pkg/domain"
	dErrors "campusconnect/pkg/domain-errors"
)

func seedUser(t *testing.T, users *identitystore.Memory, name string) id.UserID {
	t.Helper()
	user := &identitymodels.User{
		ID:        id.NewUserID(),
		Name:      name,
		Email:     name + "@example.edu",
		Role:      identitymodels.RoleUser,
		CreatedAt: time.Now(),
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user.ID
}

func seedRegistrations(t *testing.T, ledger *registrationstore.Memory, userID id.UserID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		reg := &models.Registration{
			ID:        id.NewRegistrationID(),
			UserID:    userID,
			NoticeID:  id.NewNoticeID(),
			CreatedAt: time.Now(),
		}
		require.NoError(t, ledger.Create(context.Background(), reg))
	}
}

// TestTopCorrectness walks the canonical scenario: A with 3 registrations,
// B with 1, C with 0. C never appears.
func TestTopCorrectness(t *testing.T) {
	ctx := context.Background()
	users := identitystore.NewMemory()
	ledger := registrationstore.NewMemory()

	userA := seedUser(t, users, "alice")
	userB := seedUser(t, users, "bob")
	seedUser(t, users, "carol") // zero registrations

	seedRegistrations(t, ledger, userA, 3)
	seedRegistrations(t, ledger, userB, 1)

	svc := New(ledger, users)
	entries, err := svc.Top(ctx, 10)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, userA.String(), entries[0].UserID)
	assert.Equal(t, "alice", entries[0].Name)
	assert.Equal(t, "alice@example.edu", entries[0].Email)
	assert.Equal(t, 3, entries[0].Count)
	assert.Equal(t, userB.String(), entries[1].UserID)
	assert.Equal(t, 1, entries[1].Count)
}

// TestTopOrderingProperties verifies non-increasing counts and the length
// bounds for a larger ledger.
func TestTopOrderingProperties(t *testing.T) {
	ctx := context.Background()
	users := identitystore.NewMemory()
	ledger := registrationstore.NewMemory()

	for i, n := range []int{5, 3, 3, 2, 1, 1, 1} {
		userID := seedUser(t, users, fmt.Sprintf("user%d", i))
		seedRegistrations(t, ledger, userID, n)
	}

	svc := New(ledger, users)

	entries, err := svc.Top(ctx, 4)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), 4)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Count, entries[i].Count,
			"counts must be non-increasing")
	}

	all, err := svc.Top(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 7, "length bounded by distinct registrants")
}

// TestTopTieBreakDeterministic verifies repeat runs yield the same order for
// tied counts.
func TestTopTieBreakDeterministic(t *testing.T) {
	ctx := context.Background()
	users := identitystore.NewMemory()
	ledger := registrationstore.NewMemory()

	for _, name := range []string{"dana", "eli", "fay"} {
		seedRegistrations(t, ledger, seedUser(t, users, name), 1)
	}

	svc := New(ledger, users)
	first, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 3)

	for i := 0; i < 5; i++ {
		again, err := svc.Top(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestTopSkipsBrokenReferences verifies an unresolvable user is skipped
// rather than failing the whole board.
func TestTopSkipsBrokenReferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	known := id.NewUserID()
	orphan := id.NewUserID()

	ledger := NewMockCounter(ctrl)
	ledger.EXPECT().CountByUser(gomock.Any(), 10).Return([]models.UserCount{
		{UserID: orphan, Count: 5},
		{UserID: known, Count: 2},
	}, nil)

	users := NewMockUserResolver(ctrl)
	users.EXPECT().FindByIDs(gomock.Any(), gomock.Any()).Return(map[id.UserID]*identitymodels.User{
		known: {ID: known, Name: "grace", Email: "grace@example.edu"},
	}, nil)

	svc := New(ledger, users)
	entries, err := svc.Top(ctx, 10)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, known.String(), entries[0].UserID)
	assert.Equal(t, 2, entries[0].Count)
}

// TestTopAggregationFailure verifies store failures surface as unavailable.
func TestTopAggregationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	ledger := NewMockCounter(ctrl)
	ledger.EXPECT().CountByUser(gomock.Any(), 10).Return(nil, assert.AnError)

	svc := New(ledger, NewMockUserResolver(ctrl))
	_, err := svc.Top(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

// TestTopLimitValidation verifies limit bounds.
func TestTopLimitValidation(t *testing.T) {
	svc := New(registrationstore.NewMemory(), identitystore.NewMemory())

	_, err := svc.Top(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = svc.Top(context.Background(), -3)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// TestTopEmptyLedger verifies an empty board is returned, not an error.
func TestTopEmptyLedger(t *testing.T) {
	svc := New(registrationstore.NewMemory(), identitystore.NewMemory())

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
