package models

import "time"

// Course is a published unit of learning content.
type Course struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	Lectures  []Lecture `json:"lectures,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lecture is a single video entry inside a course.
type Lecture struct {
	Title    string        `json:"title"`
	VideoURL string        `json:"video_url,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Order    int           `json:"order"`
}

// CourseNote is a per-user note attached to a course.
type CourseNote struct {
	ID        string    `json:"id,omitempty"`
	CourseID  string    `json:"course_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseComment is a public comment attached to a course.
type CourseComment struct {
	ID        string    `json:"id,omitempty"`
	CourseID  string    `json:"course_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
