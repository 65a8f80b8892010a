package equipment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/JasonLinn/cryo-booking/internal/repository"
	"github.com/google/uuid"
)

type EquipmentUseCase interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Equipment, error)
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	Create(ctx context.Context, input CreateInput) (*domain.Equipment, error)
	Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error)
	Delete(ctx context.Context, id string) (int, error)
}

// Cache holds the list of active equipment shown on the booking page.
type Cache interface {
	GetEquipment(ctx context.Context) ([]domain.Equipment, error)
	SetEquipment(ctx context.Context, list []domain.Equipment) error
	InvalidateEquipment(ctx context.Context) error
}

type CreateInput struct {
	// ID is optional; a UUID is generated when empty.
	ID          string
	Name        string
	Description string
	Location    string
	Color       string
	Status      domain.EquipmentStatus
}

type EquipmentService struct {
	repo  repository.EquipmentRepository
	cache Cache
	log   *slog.Logger
}

// NewEquipmentService builds the service; cache may be nil.
func NewEquipmentService(repo repository.EquipmentRepository, cache Cache, log *slog.Logger) *EquipmentService {
	return &EquipmentService{repo: repo, cache: cache, log: log}
}

func (s *EquipmentService) List(ctx context.Context, includeInactive bool) ([]domain.Equipment, error) {
	if includeInactive {
		return s.repo.List(ctx, false)
	}

	if s.cache != nil {
		if cached, err := s.cache.GetEquipment(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	list, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetEquipment(ctx, list); err != nil {
			s.log.Warn("cache equipment list", slog.String("error", err.Error()))
		}
	}
	return list, nil
}

func (s *EquipmentService) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EquipmentService) Create(ctx context.Context, input CreateInput) (*domain.Equipment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	status := input.Status
	if status == "" {
		status = domain.EquipmentStatusAvailable
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}

	eq := &domain.Equipment{
		ID:          id,
		Name:        name,
		Description: input.Description,
		Location:    input.Location,
		Color:       input.Color,
		Status:      status,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, eq); err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}

	s.log.Info("equipment created", slog.String("equipment_id", eq.ID), slog.String("status", string(eq.Status)))
	s.invalidate(ctx)
	return eq, nil
}

func (s *EquipmentService) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *patch.Status)
	}

	eq, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info("equipment updated", slog.String("equipment_id", eq.ID), slog.String("status", string(eq.Status)))
	s.invalidate(ctx)
	return eq, nil
}

// Delete removes the equipment together with its bookings and returns the
// number of bookings removed.
func (s *EquipmentService) Delete(ctx context.Context, id string) (int, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}

	s.log.Info("equipment deleted", slog.String("equipment_id", id), slog.Int("bookings_removed", removed))
	s.invalidate(ctx)
	return removed, nil
}

func (s *EquipmentService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEquipment(ctx); err != nil {
		s.log.Warn("invalidate equipment cache", slog.String("error", err.Error()))
	}
}

var _ EquipmentUseCase = (*EquipmentService)(nil)
