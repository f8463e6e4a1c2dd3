package server

import (
	"errors"
	"net/http"

	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// handlePosts handles /api/posts.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := s.requirePermission(w, r, models.ResourcePost, models.ActionView, models.LimitedAccess); !ok {
			return
		}
		posts, err := s.app.Storage.Posts().List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list posts")
			return
		}
		WriteJSON(w, http.StatusOK, posts)

	case http.MethodPost:
		principal, ok := s.requirePermission(w, r, models.ResourcePost, models.ActionCreate, models.FullAccess)
		if !ok {
			return
		}
		var post models.Post
		if !DecodeJSON(w, r, &post) {
			return
		}
		if post.Title == "" {
			WriteError(w, http.StatusBadRequest, "Post title is required")
			return
		}
		post.ID = ""
		post.Author = principal.Username
		if err := s.app.Storage.Posts().Create(r.Context(), &post); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to create post")
			return
		}
		WriteJSON(w, http.StatusCreated, post)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routePost handles /api/posts/{id} and /api/posts/{id}/comments.
func (s *Server) routePost(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r.URL.Path, "/api/posts/", 0)
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Post id is required")
		return
	}

	if pathSegment(r.URL.Path, "/api/posts/", 1) == "comments" {
		s.handlePostComments(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handlePostGet(w, r, id)
	case http.MethodPut:
		s.handlePostUpdate(w, r, id)
	case http.MethodDelete:
		s.handlePostDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handlePostGet(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourcePost, models.ActionView, models.LimitedAccess); !ok {
		return
	}

	post, err := s.app.Storage.Posts().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Post not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get post")
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

func (s *Server) handlePostUpdate(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourcePost, models.ActionModify, models.FullAccess); !ok {
		return
	}

	var req struct {
		Title     *string `json:"title"`
		Body      *string `json:"body"`
		Published *bool   `json:"published"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	post, err := s.app.Storage.Posts().Get(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Post not found")
		return
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.app.Storage.Posts().Update(r.Context(), post); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.requirePermission(w, r, models.ResourcePost, models.ActionDelete, models.FullAccess); !ok {
		return
	}

	if err := s.app.Storage.Posts().Delete(r.Context(), id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Post not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePostComments handles /api/posts/{id}/comments.
func (s *Server) handlePostComments(w http.ResponseWriter, r *http.Request, postID string) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := s.requirePermission(w, r, models.ResourcePostComment, models.ActionView, models.LimitedAccess); !ok {
			return
		}
		comments, err := s.app.Storage.Posts().ListComments(r.Context(), postID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list comments")
			return
		}
		WriteJSON(w, http.StatusOK, comments)

	case http.MethodPost:
		principal, ok := s.requirePermission(w, r, models.ResourcePostComment, models.ActionCreate, models.LimitedAccess)
		if !ok {
			return
		}
		var req struct {
			Body string `json:"body"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		comment := &models.PostComment{PostID: postID, Author: principal.Username, Body: req.Body}
		if err := s.app.Storage.Posts().AddComment(r.Context(), comment); err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to save comment")
			return
		}
		WriteJSON(w, http.StatusCreated, comment)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}
