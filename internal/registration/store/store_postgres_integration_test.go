//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"campusconnect/internal/registration/models"
	"campusconnect/internal/registration/store"
	id "campusconnect/pkg/domain"
	"campusconnect/pkg/platform/sentinel"
	"campusconnect/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresLedgerSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "registrations")
	s.Require().NoError(err)
}

func (s *PostgresLedgerSuite) newRegistration(userID id.UserID, noticeID id.NoticeID, createdAt time.Time) *models.Registration {
	return &models.Registration{
		ID:        id.RegistrationID(uuid.New()),
		UserID:    userID,
		NoticeID:  noticeID,
		CreatedAt: createdAt,
	}
}

// TestDuplicatePairRejected verifies the unique index translates to
// ErrConflict and leaves the first record untouched.
func (s *PostgresLedgerSuite) TestDuplicatePairRejected() {
	ctx := context.Background()
	userID, noticeID := id.NewUserID(), id.NewNoticeID()

	first := s.newRegistration(userID, noticeID, time.Now())
	s.Require().NoError(s.store.Create(ctx, first))

	err := s.store.Create(ctx, s.newRegistration(userID, noticeID, time.Now()))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.FindByPair(ctx, userID, noticeID)
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)
}

// TestConcurrentDuplicatePair verifies that concurrent creation attempts for
// the same (user, notice) pair result in exactly one success.
func (s *PostgresLedgerSuite) TestConcurrentDuplicatePair() {
	ctx := context.Background()
	userID, noticeID := id.NewUserID(), id.NewNoticeID()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, s.newRegistration(userID, noticeID, time.Now()))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict")

	regs, err := s.store.ListByNotice(ctx, noticeID)
	s.Require().NoError(err)
	s.Len(regs, 1, "only one row may exist for the pair")
}

// TestListByUserOrdering verifies newest-first ordering by created_at.
func (s *PostgresLedgerSuite) TestListByUserOrdering() {
	ctx := context.Background()
	userID := id.NewUserID()
	base := time.Now().Truncate(time.Microsecond)

	t1 := s.newRegistration(userID, id.NewNoticeID(), base)
	t2 := s.newRegistration(userID, id.NewNoticeID(), base.Add(time.Minute))
	t3 := s.newRegistration(userID, id.NewNoticeID(), base.Add(2*time.Minute))
	for _, reg := range []*models.Registration{t1, t2, t3} {
		s.Require().NoError(s.store.Create(ctx, reg))
	}

	regs, err := s.store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(regs, 3)
	s.Equal(t3.ID, regs[0].ID)
	s.Equal(t2.ID, regs[1].ID)
	s.Equal(t1.ID, regs[2].ID)
}

// TestCountByUser verifies the SQL aggregation ordering, tie-break, and
// limit.
func (s *PostgresLedgerSuite) TestCountByUser() {
	ctx := context.Background()
	userA, userB := id.NewUserID(), id.NewUserID()

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.store.Create(ctx, s.newRegistration(userA, id.NewNoticeID(), time.Now())))
	}
	s.Require().NoError(s.store.Create(ctx, s.newRegistration(userB, id.NewNoticeID(), time.Now())))

	counts, err := s.store.CountByUser(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(counts, 2)
	s.Equal(userA, counts[0].UserID)
	s.Equal(3, counts[0].Count)
	s.Equal(userB, counts[1].UserID)
	s.Equal(1, counts[1].Count)

	limited, err := s.store.CountByUser(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal(userA, limited[0].UserID)
}
