package request

type MovieRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Genre       string `json:"genre" validate:"required,max=100"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description,omitempty"`
}

type MovieUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Genre       *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	ReleaseDate *string `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description,omitempty"`
}
