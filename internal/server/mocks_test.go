package server

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/digestcode/digest/internal/interfaces"
	"github.com/digestcode/digest/internal/models"
)

// mockStorage is an in-memory StorageManager for handler tests.
type mockStorage struct {
	users       *memUserStore
	clients     *memClientStore
	memberships *memMembershipStore
	courses     *memCourseStore
	posts       *memPostStore
}

var _ interfaces.StorageManager = (*mockStorage)(nil)

func newMockStorage() *mockStorage {
	return &mockStorage{
		users:       &memUserStore{data: map[string]*models.User{}},
		clients:     &memClientStore{data: map[string]*models.Client{}},
		memberships: &memMembershipStore{data: map[string]*models.Membership{}},
		courses:     &memCourseStore{data: map[string]*models.Course{}},
		posts:       &memPostStore{data: map[string]*models.Post{}},
	}
}

func (m *mockStorage) Users() interfaces.UserStore             { return m.users }
func (m *mockStorage) Clients() interfaces.ClientStore         { return m.clients }
func (m *mockStorage) Memberships() interfaces.MembershipStore { return m.memberships }
func (m *mockStorage) Courses() interfaces.CourseStore         { return m.courses }
func (m *mockStorage) Posts() interfaces.PostStore             { return m.posts }
func (m *mockStorage) Ping(context.Context) error              { return nil }
func (m *mockStorage) Close() error                            { return nil }

type memUserStore struct {
	mu   sync.Mutex
	data map[string]*models.User
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[user.Username] = user
	return nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.data[username]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[user.Username]; !ok {
		return interfaces.ErrNotFound
	}
	s.data[user.Username] = user
	return nil
}

func (s *memUserStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[username]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.data, username)
	return nil
}

func (s *memUserStore) List(_ context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.User, 0, len(s.data))
	for _, u := range s.data {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

type memClientStore struct {
	mu   sync.Mutex
	data map[string]*models.Client
}

func (s *memClientStore) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[client.ID] = client
	return nil
}

func (s *memClientStore) Get(_ context.Context, id string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.data[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (s *memClientStore) Update(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[client.ID]; !ok {
		return interfaces.ErrNotFound
	}
	s.data[client.ID] = client
	return nil
}

func (s *memClientStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *memClientStore) List(_ context.Context) ([]*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Client, 0, len(s.data))
	for _, c := range s.data {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

type memMembershipStore struct {
	mu   sync.Mutex
	data map[string]*models.Membership
}

func (s *memMembershipStore) Upsert(_ context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[membership.Name] = membership
	return nil
}

func (s *memMembershipStore) Get(_ context.Context, name string) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	membership, ok := s.data[name]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return membership, nil
}

func (s *memMembershipStore) List(_ context.Context) ([]*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Membership, 0, len(s.data))
	for _, m := range s.data {
		out = append(out, m)
	}
	return out, nil
}

type memCourseStore struct {
	mu       sync.Mutex
	data     map[string]*models.Course
	notes    []*models.CourseNote
	comments []*models.CourseComment
}

func (s *memCourseStore) Create(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	s.data[course.ID] = course
	return nil
}

func (s *memCourseStore) Get(_ context.Context, id string) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.data[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *course
	return &copied, nil
}

func (s *memCourseStore) Update(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[course.ID]; !ok {
		return interfaces.ErrNotFound
	}
	s.data[course.ID] = course
	return nil
}

func (s *memCourseStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *memCourseStore) List(_ context.Context) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Course, 0, len(s.data))
	for _, c := range s.data {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memCourseStore) AddNote(_ context.Context, note *models.CourseNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	s.notes = append(s.notes, note)
	return nil
}

func (s *memCourseStore) ListNotes(_ context.Context, courseID, author string) ([]*models.CourseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.CourseNote{}
	for _, n := range s.notes {
		if n.CourseID == courseID && n.Author == author {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memCourseStore) AddComment(_ context.Context, comment *models.CourseComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	s.comments = append(s.comments, comment)
	return nil
}

func (s *memCourseStore) ListComments(_ context.Context, courseID string) ([]*models.CourseComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.CourseComment{}
	for _, c := range s.comments {
		if c.CourseID == courseID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memPostStore struct {
	mu       sync.Mutex
	data     map[string]*models.Post
	comments []*models.PostComment
}

func (s *memPostStore) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	s.data[post.ID] = post
	return nil
}

func (s *memPostStore) Get(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.data[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *memPostStore) Update(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[post.ID]; !ok {
		return interfaces.ErrNotFound
	}
	s.data[post.ID] = post
	return nil
}

func (s *memPostStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *memPostStore) List(_ context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Post, 0, len(s.data))
	for _, p := range s.data {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memPostStore) AddComment(_ context.Context, comment *models.PostComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	s.comments = append(s.comments, comment)
	return nil
}

func (s *memPostStore) ListComments(_ context.Context, postID string) ([]*models.PostComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.PostComment{}
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}
