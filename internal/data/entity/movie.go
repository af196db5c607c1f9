package entity

import (
	"time"
)

// DateLayout is the wire and storage format of Movie.ReleaseDate.
const DateLayout = "2006-01-02"

type Movie struct {
	Base
	Title       string    `db:"title"`
	Genre       string    `db:"genre"`
	ReleaseDate time.Time `db:"release_date"`
	Description string    `db:"description"`
}
