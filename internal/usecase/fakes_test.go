package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"movie-comments/internal/data/entity"
	"movie-comments/internal/data/repository"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repositories. Stored values are copies so tests can tell
// whether a write actually happened.

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[int64]entity.Comment
	nextID   int64
	writes   int
	failWith error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]entity.Comment)}
}

func (f *fakeCommentRepo) put(c entity.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[c.ID] = c
	if c.ID > f.nextID {
		f.nextID = c.ID
	}
}

func (f *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.comments[c.ID] = *c
	f.writes++
	return nil
}

func (f *fakeCommentRepo) FindByID(_ context.Context, id int64) (*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	return &c, nil
}

func (f *fakeCommentRepo) FindByMovieID(_ context.Context, movieID int64) ([]*entity.CommentWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.CommentWithAuthor
	for _, c := range f.comments {
		if c.MovieID == movieID {
			out = append(out, &entity.CommentWithAuthor{Comment: c, Username: "user"})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCommentRepo) Update(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	stored, ok := f.comments[c.ID]
	if !ok || stored.UserID != c.UserID {
		return apperror.NotFound("comment", c.ID)
	}
	f.comments[c.ID] = *c
	f.writes++
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.comments[id]
	if !ok || stored.UserID != userID {
		return apperror.NotFound("comment", id)
	}
	delete(f.comments, id)
	f.writes++
	return nil
}

func (f *fakeCommentRepo) GetMovieAverageRating(_ context.Context, movieID int64) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum, count int64
	for _, c := range f.comments {
		if c.MovieID == movieID {
			sum += int64(c.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type fakeMovieRepo struct {
	movies map[int64]entity.Movie
}

func (f *fakeMovieRepo) Create(_ context.Context, m *entity.Movie) error {
	m.ID = int64(len(f.movies) + 1)
	f.movies[m.ID] = *m
	return nil
}

func (f *fakeMovieRepo) FindByID(_ context.Context, id int64) (*entity.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, apperror.NotFound("movie", id)
	}
	return &m, nil
}

type fakeUserRepo struct {
	users map[int64]entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return apperror.NewValidationError().Add("username", "Invalid value")
		}
	}
	u.ID = int64(len(f.users) + 1)
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]entity.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	s.ID = int64(len(f.sessions) + 1)
	f.sessions[s.Token] = *s
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil || time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	if s, ok := f.sessions[token]; ok {
		now := time.Now()
		s.RevokedAt = &now
		f.sessions[token] = s
	}
	return nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(_ context.Context) (int64, error) {
	var n int64
	for token, s := range f.sessions {
		if time.Now().After(s.ExpiresAt) {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

type testRepos struct {
	comments *fakeCommentRepo
	movies   *fakeMovieRepo
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	repo     *repository.Repository
}

func newTestRepos() *testRepos {
	tr := &testRepos{
		comments: newFakeCommentRepo(),
		movies:   &fakeMovieRepo{movies: map[int64]entity.Movie{3: {Base: entity.Base{ID: 3}, Title: "Heat"}}},
		users:    &fakeUserRepo{users: make(map[int64]entity.User)},
		sessions: &fakeSessionRepo{sessions: make(map[uuid.UUID]entity.Session)},
	}
	tr.repo = &repository.Repository{
		User:    tr.users,
		Session: tr.sessions,
		Movie:   tr.movies,
		Comment: tr.comments,
	}
	return tr
}

func newTestCommentService(policy string) (CommentService, *testRepos) {
	tr := newTestRepos()
	return NewCommentService(tr.repo, utils.CommentConfig{EditFormPolicy: policy}, zap.NewNop()), tr
}
