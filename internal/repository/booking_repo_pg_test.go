package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestIsPgCode(t *testing.T) {
	serialization := &pgconn.PgError{Code: pgSerializationFailure}

	assert.True(t, isPgCode(serialization, pgSerializationFailure))
	assert.True(t, isPgCode(fmt.Errorf("commit: %w", serialization), pgSerializationFailure))
	assert.False(t, isPgCode(serialization, pgExclusionViolation))
	assert.False(t, isPgCode(errors.New("boom"), pgSerializationFailure))
	assert.False(t, isPgCode(nil, pgSerializationFailure))
}

func TestActiveStatuses(t *testing.T) {
	assert.Equal(t, []string{"PENDING", "APPROVED"}, activeStatuses())
	assert.Equal(t, []string{"REJECTED"}, statusStrings([]domain.BookingStatus{domain.BookingStatusRejected}))
}

func fastBackoff() retry.Backoff {
	return retry.WithMaxRetries(serializableAttempts-1, retry.NewConstant(time.Millisecond))
}

// failing returns a transaction func that fails with errs in order and then
// succeeds, counting its calls.
func failing(calls *int, errs ...error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		*calls++
		if *calls <= len(errs) {
			return errs[*calls-1]
		}
		return nil
	}
}

func TestRunSerializable(t *testing.T) {
	serialization := &pgconn.PgError{Code: pgSerializationFailure}
	exclusion := &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: "bookings_no_overlap"}
	boom := errors.New("connection reset")

	testCases := []struct {
		name      string
		errs      []error
		wantCalls int
		check     func(t *testing.T, err error)
	}{
		{
			name:      "first try succeeds",
			wantCalls: 1,
			check:     func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:      "serialization failure then success",
			errs:      []error{serialization, fmt.Errorf("commit: %w", serialization)},
			wantCalls: 3,
			check:     func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:      "serialization failure on every attempt",
			errs:      []error{serialization, serialization, serialization, serialization},
			wantCalls: serializableAttempts,
			check: func(t *testing.T, err error) {
				assert.True(t, isPgCode(err, pgSerializationFailure))
			},
		},
		{
			name:      "exclusion violation maps to overlap",
			errs:      []error{exclusion},
			wantCalls: 1,
			check:     func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrBookingOverlap) },
		},
		{
			name:      "exclusion violation after a retry",
			errs:      []error{serialization, exclusion},
			wantCalls: 2,
			check:     func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrBookingOverlap) },
		},
		{
			name:      "conflict check error is not retried",
			errs:      []error{domain.ErrBookingOverlap},
			wantCalls: 1,
			check:     func(t *testing.T, err error) { assert.ErrorIs(t, err, domain.ErrBookingOverlap) },
		},
		{
			name:      "other errors are returned as is",
			errs:      []error{boom},
			wantCalls: 1,
			check:     func(t *testing.T, err error) { assert.ErrorIs(t, err, boom) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := runSerializable(context.Background(), fastBackoff(), failing(&calls, tc.errs...))
			tc.check(t, err)
			assert.Equal(t, tc.wantCalls, calls)
		})
	}
}

func TestRunSerializable_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	err := runSerializable(ctx, retry.WithMaxRetries(2, retry.NewConstant(time.Minute)), func(ctx context.Context) error {
		calls++
		cancel()
		return &pgconn.PgError{Code: pgSerializationFailure}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestSerializationBackoff(t *testing.T) {
	b := serializationBackoff()

	first, stop := b.Next()
	require.False(t, stop)
	assert.InDelta(t, float64(serializableBaseWait), float64(first), float64(serializableBaseWait)/5)

	second, stop := b.Next()
	require.False(t, stop)
	assert.InDelta(t, float64(2*serializableBaseWait), float64(second), float64(2*serializableBaseWait)/5)

	_, stop = b.Next()
	assert.True(t, stop)
}
