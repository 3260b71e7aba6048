package actors

import (
	"strings"

	"github.com/casting-agency/casting-agency/internal/shared"
)

func (s *Service) validateCreate(req *CreateActorRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Gender = strings.TrimSpace(req.Gender)
	if err := checkIntegers(req.Age, req.MovieID); err != nil {
		return err
	}
	return shared.ValidationError(s.validate.Struct(req))
}

func (s *Service) validateUpdate(req *UpdateActorRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Gender = strings.TrimSpace(req.Gender)
	if err := checkIntegers(req.Age, req.MovieID); err != nil {
		return err
	}
	return shared.ValidationError(s.validate.Struct(req))
}

func checkIntegers(age, movieID shared.OptionalInt) error {
	if age.Invalid {
		return shared.InvalidField("age", "must be an integer")
	}
	if movieID.Invalid {
		return shared.InvalidField("movie_id", "must be an integer")
	}
	return nil
}
