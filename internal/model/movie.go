package model

import (
	"time"
)

// 演职员角色
const (
	CreditDirector = "director"
	CreditWriter   = "writer"
	CreditActor    = "actor"
	CreditCrew     = "crew"
)

// Movie 电影模型
type Movie struct {
	ID              int           `json:"id" db:"id"`
	Title           string        `json:"title" db:"title" gorm:"not null;index"`
	Year            int           `json:"year" db:"year"`
	Genre           string        `json:"genre" db:"genre" gorm:"index"` // 单一类型标签，可为空
	Overview        string        `json:"overview" db:"overview"`
	PosterURL       string        `json:"poster_url" db:"poster_url"`
	AggregateRating *float64      `json:"aggregate_rating" db:"aggregate_rating" gorm:"type:double precision"` // 0-10，暂无评价时为 nil
	RatingCount     int           `json:"rating_count" db:"rating_count"`
	Credits         []MovieCredit `json:"credits,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at" gorm:"index"`
}

// Person 人物（导演/演员/编剧）
type Person struct {
	ID        int           `json:"id" db:"id"`
	Name      string        `json:"name" db:"name" gorm:"not null;index"`
	Bio       string        `json:"bio" db:"bio"`
	PhotoURL  string        `json:"photo_url" db:"photo_url"`
	BirthYear int           `json:"birth_year,omitempty" db:"birth_year"`
	Credits   []MovieCredit `json:"credits,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// MovieCredit 电影与人物的关联
type MovieCredit struct {
	ID        int     `json:"id" db:"id"`
	MovieID   int     `json:"movie_id" db:"movie_id" gorm:"index"`
	PersonID  int     `json:"person_id" db:"person_id" gorm:"index"`
	Role      string  `json:"role" db:"role"`
	Character string  `json:"character,omitempty" db:"character"` // 角色名（仅演员）
	Person    *Person `json:"person,omitempty"`
	Movie     *Movie  `json:"movie,omitempty"`
}
