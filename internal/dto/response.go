package dto

import (
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

type ErrorResponse struct {
	Msg    string              `json:"msg"`
	Errors []domain.FieldIssue `json:"errors,omitempty"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UploadResponse struct {
	Msg   string        `json:"msg"`
	Image *domain.Image `json:"image"`
}

type CategoryResponse struct {
	Name string `json:"name"`
}

func MapCategoriesToResponse(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{Name: c.Name})
	}
	return out
}

// MapImagesToResponse keeps the JSON an array even when nothing matched.
func MapImagesToResponse(images []*domain.Image) []*domain.Image {
	if images == nil {
		return []*domain.Image{}
	}
	return images
}
