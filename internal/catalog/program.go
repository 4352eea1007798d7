package catalog

import "time"

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Program is a workout program: an ordered list of videos.
type Program struct {
	ID              int       `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Level           Level     `json:"level"`
	Category        string    `json:"category"`
	CoverURL        string    `json:"coverUrl"`
	VideosCount     int       `json:"videosCount"`
	DurationSeconds int       `json:"durationSeconds"`
	Videos          []Video   `json:"videos,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Video struct {
	ID              int    `json:"id"`
	ProgramID       int    `json:"programId"`
	Title           string `json:"title"`
	VideoURL        string `json:"videoUrl"`
	Position        int    `json:"position"`
	DurationSeconds int    `json:"durationSeconds"`
}
