package server

import (
	"errors"
	"net/http"

	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// handleCourses handles /api/courses.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleCourseList(w, r)
	case http.MethodPost:
		s.handleCourseCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleCourseList(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requirePermission(w, r, models.ResourceCourse, models.ActionView, models.LimitedAccess); !ok {
		return
	}

	courses, err := s.app.Storage.Courses().List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list courses")
		return
	}

	// the catalog view elides detail and lecture content
	catalog := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		entry := *c
		entry.Detail = ""
		entry.Lectures = nil
		catalog = append(catalog, entry)
	}
	WriteJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleCourseCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requirePermission(w, r, models.ResourceCourse, models.ActionCreate, models.FullAccess)
	if !ok {
		return
	}

	var course models.Course
	if !DecodeJSON(w, r, &course) {
		return
	}
	if course.Title == "" {
		WriteError(w, http.StatusBadRequest, "Course title is required")
		return
	}

	course.ID = ""
	course.Author = principal.Username
	if err := s.app.Storage.Courses().Create(r.Context(), &course); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to create course")
		return
	}

	s.logger.Info().Str("course_id", course.ID).Str("author", course.Author).Msg("Course created")
	WriteJSON(w, http.StatusCreated, course)
}

// routeCourse handles /api/courses/{id} and its notes and comments
// subresources.
func (s *Server) routeCourse(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r.URL.Path, "/api/courses/", 0)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Course id is required")
		return
	}

	switch pathSegment(r.URL.Path, "/api/courses/", 1) {
	case "notes":
		s.handleCourseNotes(w, r, id)
		return
	case "comments":
		s.handleCourseComments(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleCourseGet(w, r, id)
	case http.MethodPut:
		s.handleCourseUpdate(w, r, id)
	case http.MethodDelete:
		s.handleCourseDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleCourseGet returns the full course including detail and lectures,
// so it sits behind the course/detail resource rather than course.
func (s *Server) handleCourseGet(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourceCourseDetail, models.ActionView, models.LimitedAccess); !ok {
		return
	}

	course, err := s.app.Storage.Courses().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Course not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get course")
		return
	}
	WriteJSON(w, http.StatusOK, course)
}

func (s *Server) handleCourseUpdate(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourceCourse, models.ActionModify, models.FullAccess); !ok {
		return
	}

	var req struct {
		Title     *string           `json:"title"`
		Summary   *string           `json:"summary"`
		Detail    *string           `json:"detail"`
		Published *bool             `json:"published"`
		Lectures  *[]models.Lecture `json:"lectures"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	course, err := s.app.Storage.Courses().Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Course not found")
		return
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Summary != nil {
		course.Summary = *req.Summary
	}
	if req.Detail != nil {
		course.Detail = *req.Detail
	}
	if req.Published != nil {
		course.Published = *req.Published
	}
	if req.Lectures != nil {
		course.Lectures = *req.Lectures
	}

	if err := s.app.Storage.Courses().Update(r.Context(), course); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to update course")
		return
	}
	WriteJSON(w, http.StatusOK, course)
}

func (s *Server) handleCourseDelete(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourceCourse, models.ActionDelete, models.FullAccess); !ok {
		return
	}

	if err := s.app.Storage.Courses().Delete(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Course not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete course")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCourseNotes handles /api/courses/{id}/notes. Notes are private
// to their author; listing only ever returns the caller's own notes.
func (s *Server) handleCourseNotes(w http.ResponseWriter, r *http.Request, courseID string) {
	switch r.Method {
	case http.MethodGet:
		principal, ok := s.requirePermission(w, r, models.ResourceCourseNote, models.ActionView, models.LimitedAccess)
		if !ok {
			return
		}
		notes, err := s.app.Storage.Courses().ListNotes(r.Context(), courseID, principal.Username)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list notes")
			return
		}
		WriteJSON(w, http.StatusOK, notes)

	case http.MethodPost:
		principal, ok := s.requirePermission(w, r, models.ResourceCourseNote, models.ActionCreate, models.LimitedAccess)
		if !ok {
			return
		}
		var req struct {
			Body string `json:"body"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		note := &models.CourseNote{CourseID: courseID, Author: principal.Username, Body: req.Body}
		if err := s.app.Storage.Courses().AddNote(r.Context(), note); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save note")
			return
		}
		WriteJSON(w, http.StatusCreated, note)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleCourseComments handles /api/courses/{id}/comments.
func (s *Server) handleCourseComments(w http.ResponseWriter, r *http.Request, courseID string) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := s.requirePermission(w, r, models.ResourceCourseComment, models.ActionView, models.LimitedAccess); !ok {
			return
		}
		comments, err := s.app.Storage.Courses().ListComments(r.Context(), courseID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list comments")
			return
		}
		WriteJSON(w, http.StatusOK, comments)

	case http.MethodPost:
		principal, ok := s.requirePermission(w, r, models.ResourceCourseComment, models.ActionCreate, models.LimitedAccess)
		if !ok {
			return
		}
		var req struct {
			Body string `json:"body"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		comment := &models.CourseComment{CourseID: courseID, Author: principal.Username, Body: req.Body}
		if err := s.app.Storage.Courses().AddComment(r.Context(), comment); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save comment")
			return
		}
		WriteJSON(w, http.StatusCreated, comment)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}
