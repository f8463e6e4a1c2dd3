package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/digestcode/digest/internal/common"
	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// courseRow is the DB-level representation of a course.
type courseRow struct {
	CourseID  string           `json:"course_id"`
	Title     string           `json:"title"`
	Summary   string           `json:"summary"`
	Detail    string           `json:"detail"`
	Author    string           `json:"author"`
	Published bool             `json:"published"`
	Lectures  []models.Lecture `json:"lectures"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

const courseFields = "course_id, title, summary, detail, author, published, lectures, created_at, updated_at"

func (r courseRow) toModel() *models.Course {
	return &models.Course{
		ID:        r.CourseID,
		Title:     r.Title,
		Summary:   r.Summary,
		Detail:    r.Detail,
		Author:    r.Author,
		Published: r.Published,
		Lectures:  r.Lectures,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type courseNoteRow struct {
	NoteID    string    `json:"note_id"`
	CourseID  string    `json:"course_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type courseCommentRow struct {
	CommentID string    `json:"comment_id"`
	CourseID  string    `json:"course_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseStore implements interfaces.CourseStore using SurrealDB.
type CourseStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

var _ interfaces.CourseStore = (*CourseStore)(nil)

// NewCourseStore creates a new CourseStore.
func NewCourseStore(db *surrealdb.DB, logger *common.Logger) *CourseStore {
	return &CourseStore{db: db, logger: logger}
}

func (s *CourseStore) upsert(ctx context.Context, course *models.Course) error {
	sql := `UPSERT $rid SET
		course_id = $course_id, title = $title, summary = $summary,
		detail = $detail, author = $author, published = $published,
		lectures = $lectures, created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("course", course.ID),
		"course_id":  course.ID,
		"title":      course.Title,
		"summary":    course.Summary,
		"detail":     course.Detail,
		"author":     course.Author,
		"published":  course.Published,
		"lectures":   course.Lectures,
		"created_at": course.CreatedAt,
		"updated_at": course.UpdatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	return nil
}

func (s *CourseStore) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	return s.upsert(ctx, course)
}

func (s *CourseStore) Get(ctx context.Context, id string) (*models.Course, error) {
	sql := fmt.Sprintf("SELECT %s FROM $rid", courseFields)
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID("course", id),
	}
	results, err := surrealdb.Query[[]courseRow](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return (*results)[0].Result[0].toModel(), nil
}

func (s *CourseStore) Update(ctx context.Context, course *models.Course) error {
	if _, err := s.Get(ctx, course.ID); err != nil {
		return err
	}
	course.UpdatedAt = time.Now()
	return s.upsert(ctx, course)
}

func (s *CourseStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	rid := surrealmodels.NewRecordID("course", id)
	if _, err := surrealdb.Delete[courseRow](ctx, s.db, rid); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

func (s *CourseStore) List(ctx context.Context) ([]*models.Course, error) {
	sql := fmt.Sprintf("SELECT %s FROM course ORDER BY created_at", courseFields)
	results, err := surrealdb.Query[[]courseRow](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	courses := make([]*models.Course, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		courses = append(courses, row.toModel())
	}
	return courses, nil
}

func (s *CourseStore) AddNote(ctx context.Context, note *models.CourseNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	sql := `UPSERT $rid SET
		note_id = $note_id, course_id = $course_id, author = $author,
		body = $body, created_at = $created_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("course_note", note.ID),
		"note_id":    note.ID,
		"course_id":  note.CourseID,
		"author":     note.Author,
		"body":       note.Body,
		"created_at": note.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save course note: %w", err)
	}
	return nil
}

// ListNotes returns the notes one author attached to a course. Notes are
// private, so the author filter is mandatory.
func (s *CourseStore) ListNotes(ctx context.Context, courseID, author string) ([]*models.CourseNote, error) {
	sql := `SELECT note_id, course_id, author, body, created_at FROM course_note
		WHERE course_id = $course_id AND author = $author ORDER BY created_at`
	vars := map[string]any{
		"course_id": courseID,
		"author":    author,
	}
	results, err := surrealdb.Query[[]courseNoteRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list course notes: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	notes := make([]*models.CourseNote, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		notes = append(notes, &models.CourseNote{
			ID:        row.NoteID,
			CourseID:  row.CourseID,
			Author:    row.Author,
			Body:      row.Body,
			CreatedAt: row.CreatedAt,
		})
	}
	return notes, nil
}

func (s *CourseStore) AddComment(ctx context.Context, comment *models.CourseComment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	sql := `UPSERT $rid SET
		comment_id = $comment_id, course_id = $course_id, author = $author,
		body = $body, created_at = $created_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID("course_comment", comment.ID),
		"comment_id": comment.ID,
		"course_id":  comment.CourseID,
		"author":     comment.Author,
		"body":       comment.Body,
		"created_at": comment.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save course comment: %w", err)
	}
	return nil
}

func (s *CourseStore) ListComments(ctx context.Context, courseID string) ([]*models.CourseComment, error) {
	sql := `SELECT comment_id, course_id, author, body, created_at FROM course_comment
		WHERE course_id = $course_id ORDER BY created_at`
	vars := map[string]any{
		"course_id": courseID,
	}
	results, err := surrealdb.Query[[]courseCommentRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list course comments: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	comments := make([]*models.CourseComment, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		comments = append(comments, &models.CourseComment{
			ID:        row.CommentID,
			CourseID:  row.CourseID,
			Author:    row.Author,
			Body:      row.Body,
			CreatedAt: row.CreatedAt,
		})
	}
	return comments, nil
}
