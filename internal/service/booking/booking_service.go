package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/JasonLinn/cryo-booking/internal/availability"
	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/JasonLinn/cryo-booking/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string, viewer Viewer) (*domain.Booking, error)
	ListBookings(ctx context.Context, query ListQuery) ([]domain.Booking, error)
	ReviewBooking(ctx context.Context, id string, input ReviewInput) (*domain.Booking, error)
	Calendar(ctx context.Context, from, to time.Time) ([]availability.Day, error)
	EquipmentDay(ctx context.Context, equipmentID string, date time.Time) (*EquipmentDay, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// EquipmentCache is the part of the cache the booking flow touches: an
// approval changes the upcoming-bookings counter of the equipment list.
type EquipmentCache interface {
	InvalidateEquipment(ctx context.Context) error
}

// Viewer identifies the caller. The zero value is an anonymous visitor.
type Viewer struct {
	UserID string
	Role   domain.Role
}

func (v Viewer) Anonymous() bool { return v.UserID == "" }
func (v Viewer) IsAdmin() bool   { return v.Role == domain.RoleAdmin }

type CreateBookingInput struct {
	EquipmentID string
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
	// UserID is set for signed-in callers; guests give name and email instead.
	UserID     string
	GuestName  string
	GuestEmail string
}

type ListQuery struct {
	Public bool
	// Status filters the list; "all" disables the public APPROVED default.
	Status string
	UserID string
	Viewer Viewer
}

type ReviewInput struct {
	Status domain.BookingStatus
	Note   string
}

// EquipmentDay is the per-equipment view of one date for the calendar UI.
type EquipmentDay struct {
	Equipment        *domain.Equipment
	Date             time.Time
	BookableDay      bool
	CanAccept        bool
	RequiresApproval bool
	Slots            []availability.Slot
}

const (
	StatusFilterAll = "all"

	publishTimeout = 5 * time.Second
)

type BookingService struct {
	bookings           repository.BookingRepository
	equipment          repository.EquipmentRepository
	users              repository.UserRepository
	evaluator          *availability.Evaluator
	log                *slog.Logger
	producer           Producer
	notificationsTopic string
	cache              EquipmentCache
	openHour           int
	closeHour          int
	slotLength         time.Duration
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func WithCache(cache EquipmentCache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

// WithBusinessHours sets the window and slot length used by EquipmentDay.
func WithBusinessHours(openHour, closeHour int, slot time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.openHour = openHour
		s.closeHour = closeHour
		s.slotLength = slot
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	equipment repository.EquipmentRepository,
	users repository.UserRepository,
	evaluator *availability.Evaluator,
	log *slog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:   bookings,
		equipment:  equipment,
		users:      users,
		evaluator:  evaluator,
		log:        log,
		openHour:   9,
		closeHour:  18,
		slotLength: time.Hour,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.EquipmentID == "" {
		return nil, fmt.Errorf("%w: equipment id is required", domain.ErrValidation)
	}

	user, err := s.resolveRequester(ctx, input)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		EquipmentID: input.EquipmentID,
		UserID:      user.ID,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Purpose:     strings.TrimSpace(input.Purpose),
		UserName:    user.Name,
		UserEmail:   user.Email,
	}
	req := availability.Request{
		EquipmentID: booking.EquipmentID,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
	}

	err = s.bookings.CreatePending(ctx, booking, func(eq *domain.Equipment, existing []domain.Booking) error {
		status := eq.Status
		if !eq.IsActive {
			status = domain.EquipmentStatusUnavailable
		}
		return s.evaluator.Validate(req, existing, status).Err()
	})
	if errors.Is(err, domain.ErrBookingOverlap) {
		err = availability.ReasonTimeConflict
	}
	if err != nil {
		var reason availability.Reason
		if errors.As(err, &reason) {
			s.log.Info("booking rejected",
				slog.String("equipment_id", input.EquipmentID),
				slog.String("user_id", user.ID),
				slog.String("reason", string(reason)))
			return nil, reason
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("booking created",
		slog.String("booking_id", booking.ID),
		slog.String("equipment_id", booking.EquipmentID),
		slog.String("user_id", booking.UserID))

	s.publish(ctx, domain.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) resolveRequester(ctx context.Context, input CreateBookingInput) (*domain.User, error) {
	if input.UserID != "" {
		user, err := s.users.GetByID(ctx, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		return user, nil
	}

	name := strings.TrimSpace(input.GuestName)
	email := strings.TrimSpace(input.GuestEmail)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: guest name and email are required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid guest email", domain.ErrValidation)
	}

	user, err := s.users.UpsertGuest(ctx, &domain.User{ID: uuid.NewString(), Email: strings.ToLower(email), Name: name})
	if err != nil {
		return nil, fmt.Errorf("upsert guest: %w", err)
	}
	return user, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string, viewer Viewer) (*domain.Booking, error) {
	if viewer.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && b.UserID != viewer.UserID {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

// ListBookings serves two views. The public calendar view shows APPROVED
// bookings unless a status is given. The private view requires a signed-in
// caller; regular users only see their own bookings.
func (s *BookingService) ListBookings(ctx context.Context, query ListQuery) ([]domain.Booking, error) {
	var filter repository.BookingFilter

	if query.Status != "" && query.Status != StatusFilterAll {
		status := domain.BookingStatus(strings.ToUpper(query.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, query.Status)
		}
		filter.Status = []domain.BookingStatus{status}
	}

	if query.Public {
		if query.Status == "" {
			filter.Status = []domain.BookingStatus{domain.BookingStatusApproved}
		}
		return s.bookings.List(ctx, filter)
	}

	if query.Viewer.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if query.Viewer.IsAdmin() {
		filter.UserID = query.UserID
	} else {
		filter.UserID = query.Viewer.UserID
	}
	return s.bookings.List(ctx, filter)
}

// ReviewBooking moves a PENDING booking to APPROVED or REJECTED. The
// notification is sent after the write and never undoes it.
func (s *BookingService) ReviewBooking(ctx context.Context, id string, input ReviewInput) (*domain.Booking, error) {
	if input.Status != domain.BookingStatusApproved && input.Status != domain.BookingStatusRejected {
		return nil, fmt.Errorf("%w: status must be APPROVED or REJECTED", domain.ErrValidation)
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(input.Status) {
		return nil, domain.ErrInvalidTransition
	}

	reason := ""
	if input.Status == domain.BookingStatusRejected {
		reason = strings.TrimSpace(input.Note)
	}
	updated, err := s.bookings.UpdateStatus(ctx, id, input.Status, reason)
	if err != nil {
		return nil, err
	}

	s.log.Info("booking reviewed",
		slog.String("booking_id", updated.ID),
		slog.String("status", string(updated.Status)))

	if updated.Status == domain.BookingStatusApproved && s.cache != nil {
		if err := s.cache.InvalidateEquipment(ctx); err != nil {
			s.log.Warn("invalidate equipment cache", slog.String("error", err.Error()))
		}
	}

	eventType := domain.EventBookingApproved
	if updated.Status == domain.BookingStatusRejected {
		eventType = domain.EventBookingRejected
	}
	s.publish(ctx, eventType, updated)
	return updated, nil
}

func (s *BookingService) Calendar(_ context.Context, from, to time.Time) ([]availability.Day, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", domain.ErrValidation)
	}
	if to.Sub(from) >= availability.MaxCalendarDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range is longer than %d days", domain.ErrValidation, availability.MaxCalendarDays)
	}
	return s.evaluator.Calendar(from, to), nil
}

func (s *BookingService) EquipmentDay(ctx context.Context, equipmentID string, date time.Time) (*EquipmentDay, error) {
	eq, err := s.equipment.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	loc := s.evaluator.Location()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	existing, err := s.bookings.ListActiveBetween(ctx, equipmentID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return &EquipmentDay{
		Equipment:        eq,
		Date:             dayStart,
		BookableDay:      s.evaluator.IsBookableDay(dayStart),
		CanAccept:        eq.IsActive && availability.CanAccept(eq.Status),
		RequiresApproval: availability.RequiresAdminApproval(eq.Status),
		Slots:            s.evaluator.Slots(dayStart, s.openHour, s.closeHour, s.slotLength, existing),
	}, nil
}

// publish is fire-and-forget: failures are logged and never returned.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.NewBookingEvent(eventType, booking)
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
		s.log.Warn("publish booking event failed",
			slog.String("type", eventType),
			slog.String("booking_id", booking.ID),
			slog.String("error", err.Error()))
	}
}

var _ BookingUseCase = (*BookingService)(nil)
