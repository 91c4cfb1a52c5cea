package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"reviewhub/internal/apperrors"
	"reviewhub/internal/cache"
	"reviewhub/internal/dto"
	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newTestTitleService(
	titleRepo *MockTitleRepository,
	categoryRepo *MockCategoryRepository,
	genreRepo *MockGenreRepository,
	reviewRepo *MockReviewRepository,
) TitleService {
	return NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo,
		cache.NewRatingCache(nil, time.Minute))
}

func intPtr(v int) *int { return &v }

func TestTitleCreate_YearValidation(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		wantErr bool
	}{
		{"negative", -1, true},
		{"next year", time.Now().Year() + 1, true},
		{"year zero", 0, false},
		{"current year", time.Now().Year(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titleRepo := new(MockTitleRepository)
			categoryRepo := new(MockCategoryRepository)
			genreRepo := new(MockGenreRepository)
			reviewRepo := new(MockReviewRepository)
			svc := newTestTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)

			if !tt.wantErr {
				titleRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			}

			_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
				Name: "Some Title",
				Year: intPtr(tt.year),
			})

			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				titleRepo.AssertNotCalled(t, "Create")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTitleCreate_UnknownCategorySlug(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)

	categoryRepo.On("FindBySlug", mock.Anything, "nope").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Some Title",
		Year:     intPtr(2001),
		Category: "nope",
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	titleRepo.AssertNotCalled(t, "Create")
}

func TestTitleCreate_UnknownGenreSlug(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)

	genreRepo.On("FindBySlugs", mock.Anything, []string{"rock", "ghost"}).
		Return([]models.Genre{{ID: 1, Name: "Rock", Slug: "rock"}}, nil)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:   "Some Title",
		Year:   intPtr(2001),
		Genres: []string{"rock", "ghost"},
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	titleRepo.AssertNotCalled(t, "Create")
}

func TestTitleGet_RatingIsMeanOfScores(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)

	titleRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Title{ID: 1, Name: "Rated"}, nil)
	reviewRepo.On("AverageScore", mock.Anything, int64(1)).
		Return(sql.NullFloat64{Float64: 7.5, Valid: true}, nil)

	resp, err := svc.Get(context.Background(), 1)

	assert.NoError(t, err)
	if assert.NotNil(t, resp.Rating) {
		assert.InDelta(t, 7.5, *resp.Rating, 0.001)
	}
}

func TestTitleGet_NoReviewsMeansNoRating(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)

	titleRepo.On("GetByID", mock.Anything, int64(2)).
		Return(&models.Title{ID: 2, Name: "Unrated"}, nil)
	reviewRepo.On("AverageScore", mock.Anything, int64(2)).
		Return(sql.NullFloat64{}, nil)

	resp, err := svc.Get(context.Background(), 2)

	assert.NoError(t, err)
	assert.Nil(t, resp.Rating)
}

func TestTitleGet_NotFound(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)

	titleRepo.On("GetByID", mock.Anything, int64(404)).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 404)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTitleUpdate_ClearCategory(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	reviewRepo := new(MockReviewRepository)
	svc := newTestTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)

	catID := int64(3)
	titleRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Title{ID: 1, Name: "Has Category", CategoryID: &catID}, nil)
	titleRepo.On("Update", mock.Anything, mock.MatchedBy(func(title *models.Title) bool {
		return title.CategoryID == nil
	}), mock.Anything).Return(nil)
	reviewRepo.On("AverageScore", mock.Anything, int64(1)).
		Return(sql.NullFloat64{}, nil)

	empty := ""
	resp, err := svc.Update(context.Background(), 1, dto.UpdateTitleDTO{Category: &empty})

	assert.NoError(t, err)
	assert.Nil(t, resp.Category)
	titleRepo.AssertExpectations(t)
}
