package service

import (
	"context"
	"errors"
	"time"

	doctorserrors "clinic/internal/doctors/errors"
	"clinic/internal/doctors/repository"
	"clinic/internal/doctors/validator"
	"clinic/pkg/clock"
	"clinic/pkg/config"
	mongotx "clinic/pkg/db/mongo"
	apperrors "clinic/pkg/errors"
	"clinic/pkg/model"
	"clinic/pkg/sanitizer"
	"clinic/pkg/validation"

	"golang.org/x/sync/errgroup"
)

type DoctorService interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	GetByID(ctx context.Context, id string) (*model.Doctor, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Doctor, int64, error)
	Update(ctx context.Context, id string, updates *model.DoctorUpdate) (*model.Doctor, error)
	Delete(ctx context.Context, id string) error
}

type doctorService struct {
	repo      repository.DoctorRepository
	validator *validator.DoctorValidator
	clock     clock.Clock
	cfg       *config.Config
}

func NewDoctorService(
	repo repository.DoctorRepository,
	validator *validator.DoctorValidator,
	clk clock.Clock,
	cfg *config.Config,
) DoctorService {
	if clk == nil {
		clk = clock.System
	}
	return &doctorService{
		repo:      repo,
		validator: validator,
		clock:     clk,
		cfg:       cfg,
	}
}

func (s *doctorService) Create(ctx context.Context, doctor *model.Doctor) error {
	if doctor == nil {
		return apperrors.InvalidInput("Doctor cannot be empty")
	}
	doctor.ID = ""
	sanitize(doctor)

	if err := s.validator.Validate(doctor); err != nil {
		s.cfg.Log.Warn("Doctor validation failed",
			"full_name", doctor.FullName,
			"error", err,
		)
		return validation.AppError("Doctor validation failed", err)
	}

	doctor.CreatedAt = s.now()
	doctor.UpdatedAt = doctor.CreatedAt

	if err := s.repo.Create(ctx, doctor); err != nil {
		s.cfg.Log.Error("Failed to create doctor",
			"full_name", doctor.FullName,
			"error", err,
		)
		return mongotx.StoreError("Failed to create doctor", err)
	}

	s.cfg.Log.Info("Doctor created successfully",
		"id", doctor.ID,
		"full_name", doctor.FullName,
	)
	return nil
}

func (s *doctorService) GetByID(ctx context.Context, id string) (*model.Doctor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to retrieve doctor")
	}
	return doctor, nil
}

func (s *doctorService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Doctor, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var doctors []*model.Doctor

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count doctors", "error", err)
			return mongotx.StoreError("Failed to count doctors", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		doctors, err = s.repo.FindAll(gctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all doctors",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			return mongotx.StoreError("Failed to retrieve doctors", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if doctors == nil {
		doctors = []*model.Doctor{}
	}
	return doctors, count, nil
}

func (s *doctorService) Update(ctx context.Context, id string, updates *model.DoctorUpdate) (*model.Doctor, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Doctor ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Doctor update cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to check doctor existence")
	}

	merged := merge(existing, updates)
	sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Doctor validation failed",
			"id", id,
			"error", err,
		)
		return nil, validation.AppError("Doctor validation failed", err)
	}
	merged.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update doctor",
			"id", id,
			"error", err,
		)
		return nil, s.mapLookupError(id, err, "Failed to update doctor")
	}

	s.cfg.Log.Info("Doctor updated successfully",
		"id", id,
		"full_name", merged.FullName,
	)
	return merged, nil
}

func (s *doctorService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Doctor ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(id, err, "Failed to delete doctor")
	}

	s.cfg.Log.Info("Doctor deleted successfully", "id", id)
	return nil
}

func (s *doctorService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func (s *doctorService) mapLookupError(id string, err error, message string) error {
	switch {
	case errors.Is(err, doctorserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Doctor", id)
	case errors.Is(err, doctorserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid doctor ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return mongotx.StoreError(message, err)
}

func sanitize(d *model.Doctor) {
	d.FullName = sanitizer.NormalizeName(d.FullName)
	d.Email = sanitizer.NormalizeEmail(d.Email)
	d.Specialty = sanitizer.NormalizeText(d.Specialty)
	d.Contact = sanitizer.NormalizeText(d.Contact)
	d.Education = sanitizer.NormalizeText(d.Education)
	d.Experience = sanitizer.NormalizeText(d.Experience)
	d.Certifications = sanitizer.NormalizeText(d.Certifications)
	d.File = sanitizer.TrimAndNormalize(d.File)
}

func merge(existing *model.Doctor, updates *model.DoctorUpdate) *model.Doctor {
	merged := *existing
	if updates.FullName != "" {
		merged.FullName = updates.FullName
	}
	if updates.Age != nil {
		merged.Age = *updates.Age
	}
	if updates.Specialty != "" {
		merged.Specialty = updates.Specialty
	}
	if updates.Contact != "" {
		merged.Contact = updates.Contact
	}
	if updates.Email != "" {
		merged.Email = updates.Email
	}
	if updates.Education != "" {
		merged.Education = updates.Education
	}
	if updates.Experience != "" {
		merged.Experience = updates.Experience
	}
	if updates.Certifications != "" {
		merged.Certifications = updates.Certifications
	}
	if updates.File != "" {
		merged.File = updates.File
	}
	return &merged
}
