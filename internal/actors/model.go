package actors

import "time"

// Actor is a performer, optionally cast in one movie.
type Actor struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Age       int       `gorm:"not null" json:"age"`
	Gender    string    `gorm:"size:32;not null" json:"gender"`
	MovieID   *int64    `gorm:"index" json:"movie_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName pins the table name.
func (Actor) TableName() string { return "actors" }
