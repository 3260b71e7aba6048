package movies

type CreateMovieRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
}

// UpdateMovieRequest is a partial update; empty fields are left untouched.
type UpdateMovieRequest struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	ReleaseDate string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListResult is a page of movies with the unpaged total.
type ListResult struct {
	Movies []Movie `json:"movies"`
	Total  int64   `json:"total"`
}

type listResponse struct {
	Success bool    `json:"success"`
	Movies  []Movie `json:"movies"`
	Total   int64   `json:"total"`
}

type movieResponse struct {
	Success bool  `json:"success"`
	Movie   Movie `json:"movie"`
}

type deleteResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}
