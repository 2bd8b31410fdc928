package handlers

import "movie-catalog/internal/models"

type CategoryResponse struct {
	Value models.Category `json:"value" example:"now_playing"`
	Label string          `json:"label" example:"Now Playing"`
}

type LoadMoreResponse struct {
	Category models.Category `json:"category" example:"popular"`
	Page     int             `json:"page" example:"1"`
	Count    int             `json:"count" example:"20"`
	Movies   []models.Movie  `json:"movies"`
}

type RefreshGenresResponse struct {
	Genres int `json:"genres" example:"19"`
}

type PreferenceRequest struct {
	Value string `json:"value" example:"top_rated"`
}

type PreferenceResponse struct {
	Key   string `json:"key" example:"preferred_category"`
	Value string `json:"value" example:"top_rated"`
}

func newCategoryResponses(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{Value: c, Label: c.Label()})
	}
	return out
}
