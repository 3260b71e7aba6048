package actors

import "github.com/casting-agency/casting-agency/internal/shared"

type CreateActorRequest struct {
	Name    string             `json:"name" validate:"required,max=120"`
	Age     shared.OptionalInt `json:"age" validate:"required,gte=0,lte=150"`
	Gender  string             `json:"gender" validate:"required,max=32"`
	MovieID shared.OptionalInt `json:"movie_id" validate:"omitempty,gt=0"`
}

// UpdateActorRequest is a partial update; empty fields are left untouched.
type UpdateActorRequest struct {
	Name    string             `json:"name" validate:"omitempty,max=120"`
	Age     shared.OptionalInt `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender  string             `json:"gender" validate:"omitempty,max=32"`
	MovieID shared.OptionalInt `json:"movie_id" validate:"omitempty,gt=0"`
}

// ListResult is a page of actors with the unpaged total.
type ListResult struct {
	Actors []Actor `json:"actors"`
	Total  int64   `json:"total"`
}

type listResponse struct {
	Success bool    `json:"success"`
	Actors  []Actor `json:"actors"`
	Total   int64   `json:"total"`
}

type actorResponse struct {
	Success bool  `json:"success"`
	Actor   Actor `json:"actor"`
}

type deleteResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}
