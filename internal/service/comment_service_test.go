package service

import (
	"context"
	"testing"

	"reviewhub/internal/apperrors"
	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestCommentCreate_ReviewNotFound(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByID", mock.Anything, int64(9)).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), 1, 9, "user-1", "nice take")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	commentRepo.AssertNotCalled(t, "Create")
}

func TestCommentCreate_ReviewUnderWrongTitle(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByID", mock.Anything, int64(9)).
		Return(&models.Review{ID: 9, TitleID: 2}, nil)

	_, err := svc.Create(context.Background(), 1, 9, "user-1", "nice take")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	commentRepo.AssertNotCalled(t, "Create")
}

func TestCommentCreate_Success(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByID", mock.Anything, int64(9)).
		Return(&models.Review{ID: 9, TitleID: 1}, nil)
	commentRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.ReviewID == 9 && c.AuthorID == "user-1"
	})).Return(nil)
	commentRepo.On("GetByID", mock.Anything, mock.Anything).
		Return(&models.Comment{
			ReviewID: 9,
			AuthorID: "user-1",
			Text:     "nice take",
			Author:   models.User{Username: "commenter"},
		}, nil)

	resp, err := svc.Create(context.Background(), 1, 9, "user-1", "nice take")

	assert.NoError(t, err)
	assert.Equal(t, "commenter", resp.Author)
	assert.Equal(t, "nice take", resp.Text)
}

func TestCommentUpdate_StrangerForbidden(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByID", mock.Anything, int64(9)).
		Return(&models.Review{ID: 9, TitleID: 1}, nil)
	commentRepo.On("GetByID", mock.Anything, int64(3)).
		Return(&models.Comment{ID: 3, ReviewID: 9, AuthorID: "author-1"}, nil)

	_, err := svc.Update(context.Background(), 1, 9, 3, "other", models.RoleUser, "edited")

	assert.ErrorIs(t, err, apperrors.ErrPermission)
	commentRepo.AssertNotCalled(t, "Update")
}

func TestCommentDelete_ModeratorSucceeds(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByID", mock.Anything, int64(9)).
		Return(&models.Review{ID: 9, TitleID: 1}, nil)
	commentRepo.On("GetByID", mock.Anything, int64(3)).
		Return(&models.Comment{ID: 3, ReviewID: 9, AuthorID: "author-1"}, nil)
	commentRepo.On("Delete", mock.Anything, int64(3)).Return(nil)

	err := svc.Delete(context.Background(), 1, 9, 3, "mod-1", models.RoleModerator)

	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentGet_WrongReviewIsNotFound(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewCommentService(commentRepo, reviewRepo)

	reviewRepo.On("GetByID", mock.Anything, int64(9)).
		Return(&models.Review{ID: 9, TitleID: 1}, nil)
	commentRepo.On("GetByID", mock.Anything, int64(3)).
		Return(&models.Comment{ID: 3, ReviewID: 8}, nil)

	_, err := svc.Get(context.Background(), 1, 9, 3)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
