package movies

import (
	"time"

	"github.com/casting-agency/casting-agency/internal/actors"
)

// Movie is a production that actors can be cast in.
type Movie struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	ReleaseDate Date           `gorm:"not null" json:"release_date"`
	Actors      []actors.Actor `gorm:"foreignKey:MovieID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"actors,omitempty"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
}

// TableName pins the table name.
func (Movie) TableName() string { return "movies" }

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{&Movie{}, &actors.Actor{}}
}
