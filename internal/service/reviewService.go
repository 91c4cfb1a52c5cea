package service

import (
	"context"
	"errors"

	"reviewhub/internal/apperrors"
	"reviewhub/internal/cache"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/permissions"
	"reviewhub/internal/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	Create(ctx context.Context, titleID int64, authorID, text string, score int) (*dto.ReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Update(ctx context.Context, titleID, reviewID int64, actorID, actorRole string, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, titleID, reviewID int64, actorID, actorRole string) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    *cache.RatingCache
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	ratings *cache.RatingCache,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
	}
}

// Create adds a review for a title. The author always comes from the
// authenticated caller, never from the request body, and each author gets
// at most one review per title.
func (s *reviewService) Create(ctx context.Context, titleID int64, authorID, text string, score int) (*dto.ReviewResponse, error) {
	if err := validateScore(score); err != nil {
		return nil, err
	}

	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("title not found")
		}
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByTitleAndAuthor(ctx, titleID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("title", "only one review per title is allowed")
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// the unique constraint is authoritative under concurrent creates
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("title", "only one review per title is allowed")
		}
		return nil, err
	}

	s.ratings.Invalidate(ctx, titleID)

	// Reload with author data
	review, err = s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToReviewResponse(review), nil
}

// Get retrieves a single review scoped to its parent title
func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getScoped(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// List retrieves all reviews for a title, newest first, with pagination
func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("title not found")
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginatedReviewResponse(responses, int(total), page, pageSize), nil
}

// Update applies a partial update; only the author, a moderator or an
// admin may modify a review.
func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, actorID, actorRole string, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.getScoped(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanModify(actorRole, review.AuthorID == actorID) {
		return nil, apperrors.Permission("you don't have permission to modify this review")
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	s.ratings.Invalidate(ctx, titleID)

	return dto.FromModelToReviewResponse(review), nil
}

// Delete removes a review and its comments, gated like Update
func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, actorID, actorRole string) error {
	review, err := s.getScoped(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !permissions.CanModify(actorRole, review.AuthorID == actorID) {
		return apperrors.Permission("you don't have permission to modify this review")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.ratings.Invalidate(ctx, titleID)
	return nil
}

// getScoped fetches a review and verifies it belongs to the given title,
// so a review is never reachable through another title's route.
func (s *reviewService) getScoped(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, apperrors.NotFound("review not found")
	}
	return review, nil
}

// validateScore enforces the inclusive 1..10 score range.
func validateScore(score int) error {
	if score < 1 || score > 10 {
		return apperrors.Validation("score", "score must be between 1 and 10")
	}
	return nil
}
