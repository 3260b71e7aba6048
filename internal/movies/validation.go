package movies

import (
	"strings"

	"github.com/casting-agency/casting-agency/internal/shared"
)

func (s *Service) validateCreate(req *CreateMovieRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.ReleaseDate = strings.TrimSpace(req.ReleaseDate)
	return shared.ValidationError(s.validate.Struct(req))
}

func (s *Service) validateUpdate(req *UpdateMovieRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.ReleaseDate = strings.TrimSpace(req.ReleaseDate)
	return shared.ValidationError(s.validate.Struct(req))
}
