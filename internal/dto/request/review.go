package request

// CreateReviewRequest has no user or movie field: the owner is the caller and
// the movie comes from the path. Unknown JSON keys such as "user" are dropped.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=5000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,min=1,max=5000"`
}
