package dto

import "reviewhub/internal/models"

// The write shape takes slug references while the read shape embeds the
// resolved category and genre objects plus the computed rating. The two
// are kept as separate explicit types, selected by the handler.

// CreateTitleDTO is the write shape for creating a title.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"omitempty,max=50"`
	Genres      []string `json:"genres" binding:"omitempty,dive,max=50"`
}

// UpdateTitleDTO is the write shape for partially updating a title.
type UpdateTitleDTO struct {
	Name        *string  `json:"name" binding:"omitempty,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
	Genres      []string `json:"genres" binding:"omitempty,dive,max=50"`
}

// TitleResponse is the read shape. Rating is nil when the title has no
// reviews yet; that is not the same as a zero rating.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description"`
	Rating      *float64          `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genres      []GenreResponse   `json:"genres"`
}

// FromModelToTitleResponse converts a Title model plus its computed rating
// to a TitleResponse DTO
func FromModelToTitleResponse(title *models.Title, rating *float64) *TitleResponse {
	resp := &TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Rating:      rating,
		Genres:      make([]GenreResponse, 0, len(title.Genres)),
	}
	if title.Category != nil {
		resp.Category = FromModelToCategoryResponse(title.Category)
	}
	for i := range title.Genres {
		resp.Genres = append(resp.Genres, *FromModelToGenreResponse(&title.Genres[i]))
	}
	return resp
}

// PaginatedTitleResponse for returning paginated titles
type PaginatedTitleResponse struct {
	Data       []TitleResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
}

// NewPaginatedTitleResponse creates a paginated title response
func NewPaginatedTitleResponse(data []TitleResponse, total, page, pageSize int) *PaginatedTitleResponse {
	return &PaginatedTitleResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
