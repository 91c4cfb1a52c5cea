package service

import (
	"context"
	"errors"

	"reviewhub/internal/apperrors"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"
	"reviewhub/internal/permissions"
	"reviewhub/internal/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	Create(ctx context.Context, titleID, reviewID int64, authorID, text string) (*dto.CommentResponse, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	Update(ctx context.Context, titleID, reviewID, commentID int64, actorID, actorRole, text string) (*dto.CommentResponse, error)
	Delete(ctx context.Context, titleID, reviewID, commentID int64, actorID, actorRole string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// Create adds a comment under a review; the author is always the caller.
func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, authorID, text string) (*dto.CommentResponse, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	comment, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}

// Get retrieves a single comment scoped to its parent review
func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getScoped(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// List retrieves all comments for a review, newest first, with pagination
func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewPaginatedCommentResponse(responses, int(total), page, pageSize), nil
}

// Update replaces the comment text; only the author, a moderator or an
// admin may modify a comment.
func (s *commentService) Update(ctx context.Context, titleID, reviewID, commentID int64, actorID, actorRole, text string) (*dto.CommentResponse, error) {
	comment, err := s.getScoped(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanModify(actorRole, comment.AuthorID == actorID) {
		return nil, apperrors.Permission("you don't have permission to modify this comment")
	}

	comment.Text = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return dto.FromModelToCommentResponse(comment), nil
}

// Delete removes a comment, gated like Update
func (s *commentService) Delete(ctx context.Context, titleID, reviewID, commentID int64, actorID, actorRole string) error {
	comment, err := s.getScoped(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !permissions.CanModify(actorRole, comment.AuthorID == actorID) {
		return apperrors.Permission("you don't have permission to modify this comment")
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// checkReview verifies the review exists under the given title.
func (s *commentService) checkReview(ctx context.Context, titleID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("review not found")
		}
		return err
	}
	if review.TitleID != titleID {
		return apperrors.NotFound("review not found")
	}
	return nil
}

func (s *commentService) getScoped(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, apperrors.NotFound("comment not found")
	}
	return comment, nil
}
