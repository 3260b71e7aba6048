package main

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/casting-agency/casting-agency/internal/actors"
	"github.com/casting-agency/casting-agency/internal/movies"
	"github.com/casting-agency/casting-agency/internal/platform/db"
)

type seedMovie struct {
	Title       string
	ReleaseDate string
	Cast        []seedActor
}

type seedActor struct {
	Name   string
	Age    int
	Gender string
}

var catalog = []seedMovie{
	{
		Title:       "Call Me by Your Name",
		ReleaseDate: "2017-10-20",
		Cast: []seedActor{
			{Name: "Timothée Chalamet", Age: 28, Gender: "male"},
			{Name: "Armie Hammer", Age: 38, Gender: "male"},
		},
	},
	{
		Title:       "Arrival",
		ReleaseDate: "2016-11-11",
		Cast: []seedActor{
			{Name: "Amy Adams", Age: 50, Gender: "female"},
			{Name: "Jeremy Renner", Age: 53, Gender: "male"},
		},
	},
	{
		Title:       "Lady Bird",
		ReleaseDate: "2017-11-03",
		Cast: []seedActor{
			{Name: "Saoirse Ronan", Age: 30, Gender: "female"},
		},
	},
}

type seedResult struct {
	MoviesCreated  int
	MoviesExisting int
	ActorsCreated  int
	ActorsExisting int
}

// seedCatalog inserts the sample catalog, skipping rows whose title or name
// already exists.
func seedCatalog(ctx context.Context, gdb *gorm.DB) (seedResult, error) {
	var res seedResult
	err := db.WithTx(ctx, gdb, func(tx *gorm.DB) error {
		for _, m := range catalog {
			date, err := movies.ParseDate(m.ReleaseDate)
			if err != nil {
				return fmt.Errorf("movie %q: %w", m.Title, err)
			}
			movie := movies.Movie{Title: m.Title}
			created, err := firstOrCreate(tx, &movie, "title = ?", m.Title, func() { movie.ReleaseDate = date })
			if err != nil {
				return fmt.Errorf("movie %q: %w", m.Title, err)
			}
			if created {
				res.MoviesCreated++
			} else {
				res.MoviesExisting++
			}

			for _, a := range m.Cast {
				actor := actors.Actor{Name: a.Name}
				created, err := firstOrCreate(tx, &actor, "name = ?", a.Name, func() {
					actor.Age = a.Age
					actor.Gender = a.Gender
					actor.MovieID = &movie.ID
				})
				if err != nil {
					return fmt.Errorf("actor %q: %w", a.Name, err)
				}
				if created {
					res.ActorsCreated++
				} else {
					res.ActorsExisting++
				}
			}
		}
		return nil
	})
	return res, err
}

func firstOrCreate(tx *gorm.DB, dest any, query string, arg any, fill func()) (bool, error) {
	err := tx.Where(query, arg).First(dest).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	fill()
	if err := tx.Omit(clause.Associations).Create(dest).Error; err != nil {
		return false, err
	}
	return true, nil
}
