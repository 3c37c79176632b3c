package dto

import "TRAVBUD_BACK-END/internal/models"

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,min=10,max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,min=10,max=1000"`
}

func (r UpdateReviewRequest) Patch() models.WebReviewPatch {
	return models.WebReviewPatch{Rating: r.Rating, Comment: r.Comment}
}
