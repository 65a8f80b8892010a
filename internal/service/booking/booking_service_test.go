package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/availability"
	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/JasonLinn/cryo-booking/internal/logger"
	"github.com/JasonLinn/cryo-booking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

// CreatePending returns (err, equipment, existing). When no error is given
// the check runs against the supplied equipment and existing bookings, the
// way the real repository does inside its transaction.
func (m *MockBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking, check repository.ConflictCheck) error {
	args := m.Called(ctx, booking)
	if err := args.Error(0); err != nil {
		return err
	}
	if eq, ok := args.Get(1).(*domain.Equipment); ok && check != nil {
		existing, _ := args.Get(2).([]domain.Booking)
		if err := check(eq, existing); err != nil {
			return err
		}
	}
	booking.Status = domain.BookingStatusPending
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveBetween(ctx context.Context, equipmentID string, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, equipmentID, from, to)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, id, status, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockEquipmentRepository struct {
	mock.Mock
}

func (m *MockEquipmentRepository) List(ctx context.Context, activeOnly bool) ([]domain.Equipment, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}

func (m *MockEquipmentRepository) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) Delete(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpsertGuest(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpsertAdmin(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateEquipment(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

// Sunday 2025-03-09 08:00 UTC; the following Monday is bookable.
var fixedNow = time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)

func monday(hour int) time.Time {
	return time.Date(2025, 3, 10, hour, 0, 0, 0, time.UTC)
}

type fixture struct {
	bookings  *MockBookingRepository
	equipment *MockEquipmentRepository
	users     *MockUserRepository
	cache     *MockCache
	producer  *MockProducer
	service   *BookingService
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  &MockBookingRepository{},
		equipment: &MockEquipmentRepository{},
		users:     &MockUserRepository{},
		cache:     &MockCache{},
		producer:  &MockProducer{},
	}
	evaluator := availability.NewEvaluator(
		[]availability.Holiday{{Month: 2, Day: 28, Name: "Peace Memorial Day"}},
		availability.WithLocation(time.UTC),
		availability.WithClock(func() time.Time { return fixedNow }),
	)
	f.service = NewBookingService(f.bookings, f.equipment, f.users, evaluator, logger.Discard(),
		WithProducer(f.producer, "booking.notifications"),
		WithCache(f.cache),
		WithBusinessHours(9, 12, time.Hour),
	)
	return f
}

func availableEquipment() *domain.Equipment {
	return &domain.Equipment{ID: "cryo-1", Name: "Cryo-EM", Status: domain.EquipmentStatusAvailable, IsActive: true}
}

var member = &domain.User{ID: "user-1", Email: "amy@example.com", Name: "Amy", Role: domain.RoleUser}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, "user-1").Return(member, nil).Once()
	f.bookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(nil, availableEquipment(), []domain.Booking{}).Once()
	f.producer.On("Publish", mock.Anything, "booking.notifications", mock.AnythingOfType("string"),
		mock.MatchedBy(func(e domain.BookingEvent) bool {
			return e.Type == domain.EventBookingCreated && e.UserEmail == "amy@example.com"
		})).Return(nil).Once()

	booking, err := f.service.CreateBooking(ctx, CreateBookingInput{
		EquipmentID: "cryo-1",
		StartTime:   monday(10),
		EndTime:     monday(11),
		Purpose:     "  grid screening ",
		UserID:      "user-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, "grid screening", booking.Purpose)
	assert.Equal(t, "user-1", booking.UserID)

	f.users.AssertExpectations(t)
	f.bookings.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_Guest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	guest := &domain.User{ID: "guest-1", Email: "bob@example.com", Name: "Bob", Role: domain.RoleUser}
	f.users.On("UpsertGuest", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "bob@example.com" && u.Name == "Bob" && u.ID != ""
	})).Return(guest, nil).Once()
	f.bookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(nil, availableEquipment(), []domain.Booking{}).Once()
	f.producer.On("Publish", mock.Anything, "booking.notifications", mock.Anything, mock.Anything).Return(nil).Once()

	booking, err := f.service.CreateBooking(ctx, CreateBookingInput{
		EquipmentID: "cryo-1",
		StartTime:   monday(10),
		EndTime:     monday(11),
		GuestName:   "Bob",
		GuestEmail:  "Bob@Example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "guest-1", booking.UserID)
	f.users.AssertExpectations(t)
}

func TestBookingService_CreateBooking_GuestDetailsRequired(t *testing.T) {
	f := newFixture()

	testCases := []struct {
		name  string
		input CreateBookingInput
	}{
		{"no equipment", CreateBookingInput{GuestName: "Bob", GuestEmail: "bob@example.com"}},
		{"no name", CreateBookingInput{EquipmentID: "cryo-1", GuestEmail: "bob@example.com"}},
		{"no email", CreateBookingInput{EquipmentID: "cryo-1", GuestName: "Bob"}},
		{"bad email", CreateBookingInput{EquipmentID: "cryo-1", GuestName: "Bob", GuestEmail: "not-an-email"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateBooking(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	f.users.AssertNotCalled(t, "UpsertGuest", mock.Anything, mock.Anything)
	f.bookings.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_Rejections(t *testing.T) {
	existing := []domain.Booking{
		{ID: "b-1", EquipmentID: "cryo-1", StartTime: monday(10), EndTime: monday(11), Status: domain.BookingStatusApproved},
	}
	maintenance := availableEquipment()
	maintenance.Status = domain.EquipmentStatusMaintenance
	inactive := availableEquipment()
	inactive.IsActive = false

	testCases := []struct {
		name      string
		start     time.Time
		end       time.Time
		equipment *domain.Equipment
		expected  availability.Reason
	}{
		{"invalid range", monday(11), monday(10), availableEquipment(), availability.ReasonInvalidRange},
		{"past date", fixedNow.Add(-2 * time.Hour), fixedNow.Add(-time.Hour), availableEquipment(), availability.ReasonPastDate},
		{"maintenance", monday(14), monday(15), maintenance, availability.ReasonEquipmentNotBookable},
		{"inactive", monday(14), monday(15), inactive, availability.ReasonEquipmentNotBookable},
		{"weekend", time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), time.Date(2025, 3, 15, 11, 0, 0, 0, time.UTC), availableEquipment(), availability.ReasonNonBookableDay},
		{"conflict", monday(10), monday(12), availableEquipment(), availability.ReasonTimeConflict},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			f.users.On("GetByID", ctx, "user-1").Return(member, nil).Once()
			f.bookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).
				Return(nil, tc.equipment, existing).Once()

			booking, err := f.service.CreateBooking(ctx, CreateBookingInput{
				EquipmentID: "cryo-1",
				StartTime:   tc.start,
				EndTime:     tc.end,
				UserID:      "user-1",
			})

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, tc.expected)
			f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_CreateBooking_ExclusionViolationIsTimeConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, "user-1").Return(member, nil).Once()
	f.bookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(domain.ErrBookingOverlap, nil, nil).Once()

	_, err := f.service.CreateBooking(ctx, CreateBookingInput{
		EquipmentID: "cryo-1", StartTime: monday(10), EndTime: monday(11), UserID: "user-1",
	})

	assert.ErrorIs(t, err, availability.ReasonTimeConflict)
}

func TestBookingService_CreateBooking_RepositoryError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, "user-1").Return(member, nil).Once()
	f.bookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(domain.ErrEquipmentNotFound, nil, nil).Once()

	_, err := f.service.CreateBooking(ctx, CreateBookingInput{
		EquipmentID: "missing", StartTime: monday(10), EndTime: monday(11), UserID: "user-1",
	})

	assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
}

func TestBookingService_CreateBooking_PublishFailureIsIgnored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByID", ctx, "user-1").Return(member, nil).Once()
	f.bookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(nil, availableEquipment(), []domain.Booking{}).Once()
	f.producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("broker down")).Once()

	booking, err := f.service.CreateBooking(ctx, CreateBookingInput{
		EquipmentID: "cryo-1", StartTime: monday(10), EndTime: monday(11), UserID: "user-1",
	})

	require.NoError(t, err)
	assert.NotNil(t, booking)
	f.producer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_WithoutProducer(t *testing.T) {
	f := newFixture()
	f.service.producer = nil
	ctx := context.Background()

	f.users.On("GetByID", ctx, "user-1").Return(member, nil).Once()
	f.bookings.On("CreatePending", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(nil, availableEquipment(), []domain.Booking{}).Once()

	_, err := f.service.CreateBooking(ctx, CreateBookingInput{
		EquipmentID: "cryo-1", StartTime: monday(10), EndTime: monday(11), UserID: "user-1",
	})

	require.NoError(t, err)
	f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_GetBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := &domain.Booking{ID: "b-1", UserID: "user-1"}
	f.bookings.On("GetByID", ctx, "b-1").Return(b, nil)

	_, err := f.service.GetBooking(ctx, "b-1", Viewer{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	got, err := f.service.GetBooking(ctx, "b-1", Viewer{UserID: "user-1", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = f.service.GetBooking(ctx, "b-1", Viewer{UserID: "user-2", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err = f.service.GetBooking(ctx, "b-1", Viewer{UserID: "admin-1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestBookingService_ListBookings(t *testing.T) {
	approvedOnly := []domain.BookingStatus{domain.BookingStatusApproved}
	pendingOnly := []domain.BookingStatus{domain.BookingStatusPending}

	testCases := []struct {
		name     string
		query    ListQuery
		expected repository.BookingFilter
	}{
		{"public default", ListQuery{Public: true}, repository.BookingFilter{Status: approvedOnly}},
		{"public all", ListQuery{Public: true, Status: "all"}, repository.BookingFilter{}},
		{"public pending", ListQuery{Public: true, Status: "pending"}, repository.BookingFilter{Status: pendingOnly}},
		{
			"user sees own",
			ListQuery{UserID: "someone-else", Viewer: Viewer{UserID: "user-1", Role: domain.RoleUser}},
			repository.BookingFilter{UserID: "user-1"},
		},
		{
			"admin filters by user",
			ListQuery{UserID: "user-2", Status: "PENDING", Viewer: Viewer{UserID: "admin-1", Role: domain.RoleAdmin}},
			repository.BookingFilter{UserID: "user-2", Status: pendingOnly},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			f.bookings.On("List", ctx, tc.expected).Return([]domain.Booking{{ID: "b-1"}}, nil).Once()

			list, err := f.service.ListBookings(ctx, tc.query)

			require.NoError(t, err)
			assert.Len(t, list, 1)
			f.bookings.AssertExpectations(t)
		})
	}
}

func TestBookingService_ListBookings_Errors(t *testing.T) {
	f := newFixture()

	_, err := f.service.ListBookings(context.Background(), ListQuery{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.service.ListBookings(context.Background(), ListQuery{Public: true, Status: "CANCELLED"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_ReviewBooking_Approve(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pending := &domain.Booking{ID: "b-1", UserID: "user-1", Status: domain.BookingStatusPending}
	approved := &domain.Booking{ID: "b-1", UserID: "user-1", Status: domain.BookingStatusApproved}

	f.bookings.On("GetByID", ctx, "b-1").Return(pending, nil).Once()
	f.bookings.On("UpdateStatus", ctx, "b-1", domain.BookingStatusApproved, "").Return(approved, nil).Once()
	f.cache.On("InvalidateEquipment", ctx).Return(nil).Once()
	f.producer.On("Publish", mock.Anything, "booking.notifications", "b-1",
		mock.MatchedBy(func(e domain.BookingEvent) bool { return e.Type == domain.EventBookingApproved })).
		Return(nil).Once()

	got, err := f.service.ReviewBooking(ctx, "b-1", ReviewInput{Status: domain.BookingStatusApproved, Note: "see you"})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusApproved, got.Status)
	f.bookings.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestBookingService_ReviewBooking_Reject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	pending := &domain.Booking{ID: "b-1", Status: domain.BookingStatusPending}
	rejected := &domain.Booking{ID: "b-1", Status: domain.BookingStatusRejected, RejectionReason: "sample prep missing"}

	f.bookings.On("GetByID", ctx, "b-1").Return(pending, nil).Once()
	f.bookings.On("UpdateStatus", ctx, "b-1", domain.BookingStatusRejected, "sample prep missing").Return(rejected, nil).Once()
	f.producer.On("Publish", mock.Anything, "booking.notifications", "b-1",
		mock.MatchedBy(func(e domain.BookingEvent) bool {
			return e.Type == domain.EventBookingRejected && e.Reason == "sample prep missing"
		})).Return(nil).Once()

	got, err := f.service.ReviewBooking(ctx, "b-1", ReviewInput{Status: domain.BookingStatusRejected, Note: " sample prep missing "})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusRejected, got.Status)
	f.cache.AssertNotCalled(t, "InvalidateEquipment", mock.Anything)
	f.producer.AssertExpectations(t)
}

func TestBookingService_ReviewBooking_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("bad status", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.ReviewBooking(ctx, "b-1", ReviewInput{Status: domain.BookingStatusPending})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", ctx, "b-1").Return(nil, domain.ErrBookingNotFound).Once()
		_, err := f.service.ReviewBooking(ctx, "b-1", ReviewInput{Status: domain.BookingStatusApproved})
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("already decided", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", ctx, "b-1").Return(&domain.Booking{ID: "b-1", Status: domain.BookingStatusRejected}, nil).Once()
		_, err := f.service.ReviewBooking(ctx, "b-1", ReviewInput{Status: domain.BookingStatusApproved})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lost race", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", ctx, "b-1").Return(&domain.Booking{ID: "b-1", Status: domain.BookingStatusPending}, nil).Once()
		f.bookings.On("UpdateStatus", ctx, "b-1", domain.BookingStatusApproved, "").Return(nil, domain.ErrInvalidTransition).Once()
		_, err := f.service.ReviewBooking(ctx, "b-1", ReviewInput{Status: domain.BookingStatusApproved})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBookingService_Calendar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	days, err := f.service.Calendar(ctx, time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.True(t, days[0].Bookable)
	assert.Equal(t, "Peace Memorial Day", days[1].Reason)
	assert.Equal(t, "weekend", days[2].Reason)

	_, err = f.service.Calendar(ctx, monday(0), fixedNow)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.Calendar(ctx, monday(0), monday(0).AddDate(2, 0, 0))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_EquipmentDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	eq := availableEquipment()
	eq.Status = domain.EquipmentStatusAskAdmin
	dayStart := monday(0)
	existing := []domain.Booking{
		{ID: "b-1", EquipmentID: "cryo-1", StartTime: monday(10), EndTime: monday(11), Status: domain.BookingStatusPending},
	}

	f.equipment.On("GetByID", ctx, "cryo-1").Return(eq, nil).Once()
	f.bookings.On("ListActiveBetween", ctx, "cryo-1", dayStart, dayStart.AddDate(0, 0, 1)).Return(existing, nil).Once()

	day, err := f.service.EquipmentDay(ctx, "cryo-1", monday(15))

	require.NoError(t, err)
	assert.Equal(t, dayStart, day.Date)
	assert.True(t, day.BookableDay)
	assert.True(t, day.CanAccept)
	assert.True(t, day.RequiresApproval)
	require.Len(t, day.Slots, 3)
	assert.True(t, day.Slots[0].Free)
	assert.False(t, day.Slots[1].Free)
	assert.True(t, day.Slots[2].Free)
}

func TestBookingService_EquipmentDay_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.equipment.On("GetByID", ctx, "nope").Return(nil, domain.ErrEquipmentNotFound).Once()

	_, err := f.service.EquipmentDay(ctx, "nope", monday(0))
	assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
}
