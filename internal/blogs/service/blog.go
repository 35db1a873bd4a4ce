package service

import (
	"context"
	"errors"
	"time"

	blogserrors "clinic/internal/blogs/errors"
	"clinic/internal/blogs/repository"
	"clinic/internal/blogs/validator"
	"clinic/pkg/clock"
	"clinic/pkg/config"
	mongotx "clinic/pkg/db/mongo"
	apperrors "clinic/pkg/errors"
	"clinic/pkg/model"
	"clinic/pkg/sanitizer"
	"clinic/pkg/validation"

	"golang.org/x/sync/errgroup"
)

type BlogService interface {
	Create(ctx context.Context, blog *model.Blog) error
	GetByID(ctx context.Context, id string) (*model.Blog, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Blog, int64, error)
	Update(ctx context.Context, id string, updates *model.BlogUpdate) (*model.Blog, error)
	Delete(ctx context.Context, id string) error
}

type blogService struct {
	repo      repository.BlogRepository
	validator *validator.BlogValidator
	clock     clock.Clock
	cfg       *config.Config
}

func NewBlogService(
	repo repository.BlogRepository,
	validator *validator.BlogValidator,
	clk clock.Clock,
	cfg *config.Config,
) BlogService {
	if clk == nil {
		clk = clock.System
	}
	return &blogService{
		repo:      repo,
		validator: validator,
		clock:     clk,
		cfg:       cfg,
	}
}

// Create stores a post; a missing publish date means now.
func (s *blogService) Create(ctx context.Context, blog *model.Blog) error {
	if blog == nil {
		return apperrors.InvalidInput("Blog cannot be empty")
	}
	blog.ID = ""
	sanitize(blog)

	if err := s.validator.Validate(blog); err != nil {
		s.cfg.Log.Warn("Blog validation failed",
			"title", blog.Title,
			"error", err,
		)
		return validation.AppError("Blog validation failed", err)
	}

	now := s.now()
	if blog.PublishDate.IsZero() {
		blog.PublishDate = now
	}
	blog.CreatedAt = now
	blog.UpdatedAt = now

	if err := s.repo.Create(ctx, blog); err != nil {
		s.cfg.Log.Error("Failed to create blog",
			"title", blog.Title,
			"error", err,
		)
		return mongotx.StoreError("Failed to create blog", err)
	}

	s.cfg.Log.Info("Blog created successfully",
		"id", blog.ID,
		"title", blog.Title,
	)
	return nil
}

func (s *blogService) GetByID(ctx context.Context, id string) (*model.Blog, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Blog ID cannot be empty")
	}

	blog, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to retrieve blog")
	}
	return blog, nil
}

func (s *blogService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Blog, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var blogs []*model.Blog

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = s.repo.Count(gctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count blogs", "error", err)
			return mongotx.StoreError("Failed to count blogs", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		blogs, err = s.repo.FindAll(gctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all blogs", "limit", limit, "offset", offset, "error", err)
			return mongotx.StoreError("Failed to retrieve blogs", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if blogs == nil {
		blogs = []*model.Blog{}
	}
	return blogs, count, nil
}

func (s *blogService) Update(ctx context.Context, id string, updates *model.BlogUpdate) (*model.Blog, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Blog ID cannot be empty")
	}
	if updates == nil {
		return nil, apperrors.InvalidInput("Blog update cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err, "Failed to check blog existence")
	}

	merged := *existing
	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Author != "" {
		merged.Author = updates.Author
	}
	if updates.Content != "" {
		merged.Content = updates.Content
	}
	if updates.PublishDate != nil {
		merged.PublishDate = updates.PublishDate.UTC()
	}
	sanitize(&merged)

	if err := s.validator.Validate(&merged); err != nil {
		s.cfg.Log.Warn("Blog validation failed", "id", id, "error", err)
		return nil, validation.AppError("Blog validation failed", err)
	}
	merged.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, id, &merged); err != nil {
		return nil, s.mapLookupError(id, err, "Failed to update blog")
	}

	s.cfg.Log.Info("Blog updated successfully", "id", id, "title", merged.Title)
	return &merged, nil
}

func (s *blogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Blog ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(id, err, "Failed to delete blog")
	}

	s.cfg.Log.Info("Blog deleted successfully", "id", id)
	return nil
}

func (s *blogService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func (s *blogService) mapLookupError(id string, err error, message string) error {
	switch {
	case errors.Is(err, blogserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Blog", id)
	case errors.Is(err, blogserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid blog ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return mongotx.StoreError(message, err)
}

func sanitize(b *model.Blog) {
	b.Title = sanitizer.TrimAndNormalize(b.Title)
	b.Author = sanitizer.NormalizeName(b.Author)
	b.Content = sanitizer.NormalizeText(b.Content)
}
