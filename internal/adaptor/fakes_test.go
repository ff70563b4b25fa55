package adaptor

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"movie-comments/internal/data/entity"
	"movie-comments/internal/data/repository"
	"movie-comments/internal/dto/request"
	"movie-comments/internal/dto/response"
	"movie-comments/internal/usecase"
	"movie-comments/internal/view"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/middleware"
	"movie-comments/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// memComments is an in-memory CommentRepository that counts writes
type memComments struct {
	mu       sync.Mutex
	comments map[int64]entity.Comment
	nextID   int64
	writes   int
}

func newMemComments() *memComments {
	return &memComments{comments: make(map[int64]entity.Comment), nextID: 1}
}

func (m *memComments) seed(c entity.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[c.ID] = c
	if c.ID >= m.nextID {
		m.nextID = c.ID + 1
	}
}

func (m *memComments) get(id int64) (entity.Comment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	return c, ok
}

func (m *memComments) Create(_ context.Context, c *entity.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.comments[c.ID] = *c
	m.writes++
	return nil
}

func (m *memComments) FindByID(_ context.Context, id int64) (*entity.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	return &c, nil
}

func (m *memComments) FindByMovieID(_ context.Context, movieID int64) ([]*entity.CommentWithAuthor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.CommentWithAuthor
	for _, c := range m.comments {
		if c.MovieID == movieID {
			out = append(out, &entity.CommentWithAuthor{Comment: c, Username: fmt.Sprintf("user%d", c.UserID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memComments) Update(_ context.Context, c *entity.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.comments[c.ID]
	if !ok || stored.UserID != c.UserID {
		return apperror.NotFound("comment", c.ID)
	}
	m.comments[c.ID] = *c
	m.writes++
	return nil
}

func (m *memComments) Delete(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.comments[id]
	if !ok || stored.UserID != userID {
		return apperror.NotFound("comment", id)
	}
	delete(m.comments, id)
	m.writes++
	return nil
}

func (m *memComments) GetMovieAverageRating(_ context.Context, movieID int64) (float64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, n int64
	for _, c := range m.comments {
		if c.MovieID == movieID {
			sum += int64(c.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

type memMovies struct {
	movies map[int64]entity.Movie
}

func (m *memMovies) Create(_ context.Context, movie *entity.Movie) error {
	movie.ID = int64(len(m.movies) + 1)
	m.movies[movie.ID] = *movie
	return nil
}

func (m *memMovies) FindByID(_ context.Context, id int64) (*entity.Movie, error) {
	movie, ok := m.movies[id]
	if !ok {
		return nil, apperror.NotFound("movie", id)
	}
	return &movie, nil
}

// stubAuth is a hand-written AuthService
type stubAuth struct {
	loginResp *response.AuthResponse
	loginErr  error
	gotLogin  *request.LoginRequest
	loggedOut string
}

func (s *stubAuth) Login(_ context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	s.gotLogin = req
	return s.loginResp, s.loginErr
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func (s *stubAuth) Authenticate(context.Context, string) (*entity.User, error) { return nil, nil }

func (s *stubAuth) CreateUser(context.Context, *request.CreateUserRequest) (*entity.User, error) {
	return nil, nil
}

func (s *stubAuth) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

// failingRenderer always fails, to exercise the render error path
type failingRenderer struct{}

func (failingRenderer) Render(http.ResponseWriter, int, string, view.Locals) error {
	return fmt.Errorf("template exploded")
}

type testApp struct {
	comments *memComments
	auth     *stubAuth
	handler  *Handler
}

func newTestApp(renderer view.Renderer, policy string) *testApp {
	comments := newMemComments()
	movies := &memMovies{movies: map[int64]entity.Movie{
		3: {Base: entity.Base{ID: 3}, Title: "Heat"},
	}}
	repo := &repository.Repository{Comment: comments, Movie: movies}
	auth := &stubAuth{}

	log := zap.NewNop()
	config := &utils.Config{
		Session: utils.SessionConfig{TTLHours: 24, CookieName: "session_token"},
		Comment: utils.CommentConfig{EditFormPolicy: policy},
	}

	service := &usecase.Service{
		Auth:    auth,
		Movie:   usecase.NewMovieService(repo, log),
		Comment: usecase.NewCommentService(repo, config.Comment, log),
	}

	return &testApp{
		comments: comments,
		auth:     auth,
		handler:  NewHandler(service, renderer, config, log),
	}
}

// router mounts the handlers the way the application does, with userID
// standing in for the session middleware (0 is anonymous)
func (a *testApp) router(userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.MethodOverride)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID > 0 {
				ctx := utils.SetUserContext(req.Context(), userID, fmt.Sprintf("user%d", userID))
				ctx = utils.SetTokenContext(ctx, "token-of-user")
				req = req.WithContext(ctx)
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/login", a.handler.Auth.LoginForm)
	r.Post("/login", a.handler.Auth.Login)
	r.Post("/logout", a.handler.Auth.Logout)
	r.Get("/movies/{movieId}", a.handler.Movie.Show)
	r.Get("/movies/{movieId}/comments/new", a.handler.Comment.NewForm)
	r.Post("/movies/{movieId}/comments", a.handler.Comment.Create)
	r.Get("/comments/{id}", a.handler.Comment.EditForm)
	r.Put("/comments/{id}", a.handler.Comment.Update)
	r.Delete("/comments/{id}", a.handler.Comment.Delete)
	return r
}
