package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/apperrors"
	"reviewhub/internal/cache"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	Get(ctx context.Context, titleID int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, titleID int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, titleID int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	reviewRepo   repository.ReviewRepository
	ratings      *cache.RatingCache
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	reviewRepo repository.ReviewRepository,
	ratings *cache.RatingCache,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
		ratings:      ratings,
	}
}

// List retrieves titles matching the filter, each with its computed rating
func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		rating, err := s.ratingFor(ctx, titles[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i], rating))
	}

	return dto.NewPaginatedTitleResponse(responses, int(total), page, pageSize), nil
}

// Get retrieves a single title with its computed rating
func (s *titleService) Get(ctx context.Context, titleID int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, titleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("title not found")
		}
		return nil, err
	}

	rating, err := s.ratingFor(ctx, titleID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToTitleResponse(title, rating), nil
}

// Create validates the year and slug references and inserts the title
// together with its genre associations.
func (s *titleService) Create(ctx context.Context, req dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if err := validateYear(*req.Year); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
	}

	if req.Category != "" {
		category, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	genres, err := s.resolveGenres(ctx, req.Genres)
	if err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title, genres); err != nil {
		return nil, err
	}
	title.Genres = genres

	return dto.FromModelToTitleResponse(title, nil), nil
}

// Update applies a partial update; a genres field, when present, replaces
// the whole association set.
func (s *titleService) Update(ctx context.Context, titleID int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, titleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("title not found")
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := validateYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.resolveCategory(ctx, *req.Category)
			if err != nil {
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	var genres []models.Genre
	if req.Genres != nil {
		genres, err = s.resolveGenres(ctx, req.Genres)
		if err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(ctx, title, genres); err != nil {
		return nil, err
	}
	if genres != nil {
		title.Genres = genres
	}

	rating, err := s.ratingFor(ctx, titleID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToTitleResponse(title, rating), nil
}

// Delete removes a title; reviews and comments cascade
func (s *titleService) Delete(ctx context.Context, titleID int64) error {
	if err := s.titleRepo.Delete(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("title not found")
		}
		return err
	}
	s.ratings.Invalidate(ctx, titleID)
	return nil
}

// ratingFor returns the mean review score, preferring the cache. A title
// without reviews has no rating at all, never a zero one.
func (s *titleService) ratingFor(ctx context.Context, titleID int64) (*float64, error) {
	if rating, ok := s.ratings.Get(ctx, titleID); ok {
		return rating, nil
	}

	avg, err := s.reviewRepo.AverageScore(ctx, titleID)
	if err != nil {
		return nil, err
	}

	var rating *float64
	if avg.Valid {
		rating = &avg.Float64
	}
	s.ratings.Set(ctx, titleID, rating)
	return rating, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("category", fmt.Sprintf("unknown category slug %q", slug))
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}

	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		for _, slug := range slugs {
			if !found[slug] {
				return nil, apperrors.Validation("genres", fmt.Sprintf("unknown genre slug %q", slug))
			}
		}
	}
	return genres, nil
}

func validateYear(year int) error {
	if year < 0 || year > time.Now().Year() {
		return apperrors.Validation("year", "year must be between 0 and the current year")
	}
	return nil
}
