package wire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"movie-comments/internal/data/entity"
	"movie-comments/internal/data/repository"
	"movie-comments/internal/view"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type oneMovie struct{}

func (oneMovie) Create(context.Context, *entity.Movie) error { return nil }

func (oneMovie) FindByID(_ context.Context, id int64) (*entity.Movie, error) {
	if id != 3 {
		return nil, apperror.NotFound("movie", id)
	}
	return &entity.Movie{Base: entity.Base{ID: 3}, Title: "Heat"}, nil
}

type noComments struct{ creates int }

func (n *noComments) Create(_ context.Context, c *entity.Comment) error {
	n.creates++
	c.ID = 1
	return nil
}

func (n *noComments) FindByID(_ context.Context, id int64) (*entity.Comment, error) {
	return nil, apperror.NotFound("comment", id)
}

func (n *noComments) FindByMovieID(context.Context, int64) ([]*entity.CommentWithAuthor, error) {
	return nil, nil
}

func (n *noComments) Update(_ context.Context, c *entity.Comment) error {
	return apperror.NotFound("comment", c.ID)
}

func (n *noComments) Delete(_ context.Context, id, _ int64) error {
	return apperror.NotFound("comment", id)
}

func (n *noComments) GetMovieAverageRating(context.Context, int64) (float64, int64, error) {
	return 0, 0, nil
}

// signedIn resolves exactly one session token, for user 7
type signedIn struct{ token uuid.UUID }

func (s signedIn) Create(context.Context, *entity.Session) error { return nil }

func (s signedIn) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	if token != s.token {
		return nil, nil
	}
	return &entity.Session{UserID: 7, Token: token}, nil
}

func (s signedIn) Revoke(context.Context, uuid.UUID) error { return nil }

func (s signedIn) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

type oneUser struct{}

func (oneUser) Create(context.Context, *entity.User) error { return nil }

func (oneUser) FindByID(_ context.Context, id int64) (*entity.User, error) {
	if id != 7 {
		return nil, apperror.NotFound("user", id)
	}
	return &entity.User{Base: entity.Base{ID: 7}, Username: "alice"}, nil
}

func (oneUser) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return nil, apperror.NotFound("user", username)
}

var sessionToken = uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

func newTestApp(t *testing.T, pinger Pinger) (*App, *noComments) {
	t.Helper()

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	comments := &noComments{}
	repo := &repository.Repository{
		User:    oneUser{},
		Session: signedIn{token: sessionToken},
		Movie:   oneMovie{},
		Comment: comments,
	}
	config := &utils.Config{
		Session: utils.SessionConfig{TTLHours: 24, CookieName: "session_token"},
		CSRF: utils.CSRFConfig{
			AuthKey:   "0123456789abcdef0123456789abcdef",
			FieldName: "_csrf",
		},
		Comment: utils.CommentConfig{EditFormPolicy: utils.EditFormPublic},
	}

	return Wiring(repo, pinger, config, renderer, zap.NewNop()), comments
}

var csrfFieldPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func TestCSRFRequiredForMutations(t *testing.T) {
	app, comments := newTestApp(t, stubPinger{})

	form := url.Values{"message": {"Great movie"}, "rating": {"5"}}
	req := httptest.NewRequest(http.MethodPost, "/movies/3/comments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	app.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid or missing CSRF token")
	assert.Equal(t, 0, comments.creates)
}

func TestCSRFFailureKeepsSignedInUser(t *testing.T) {
	app, comments := newTestApp(t, stubPinger{})

	form := url.Values{"message": {"Great movie"}, "rating": {"5"}}
	req := httptest.NewRequest(http.MethodPost, "/movies/3/comments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "session_token", Value: sessionToken.String()})
	rr := httptest.NewRecorder()

	app.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Signed in as alice")
	assert.Equal(t, 0, comments.creates)
}

func TestCSRFTunnelledDeleteWithoutToken(t *testing.T) {
	app, _ := newTestApp(t, stubPinger{})

	form := url.Values{"_method": {"DELETE"}}
	req := httptest.NewRequest(http.MethodPost, "/comments/42", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()

	app.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	app, comments := newTestApp(t, stubPinger{})

	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/movies/3/comments/new", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	match := csrfFieldPattern.FindStringSubmatch(rr.Body.String())
	require.Len(t, match, 2, "form should embed a CSRF field")

	form := url.Values{"_csrf": {match[1]}, "message": {"Great movie"}, "rating": {"5"}}
	req := httptest.NewRequest(http.MethodPost, "/movies/3/comments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()

	app.Router.ServeHTTP(rr, req)

	// Past CSRF, but nobody is signed in
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, comments.creates)
}

func TestHealth(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		app, _ := newTestApp(t, stubPinger{})
		rr := httptest.NewRecorder()

		app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("database down", func(t *testing.T) {
		app, _ := newTestApp(t, stubPinger{err: errors.New("connection refused")})
		rr := httptest.NewRecorder()

		app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestMovieRoutes(t *testing.T) {
	app, _ := newTestApp(t, stubPinger{})

	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/movies/3", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Heat")

	rr = httptest.NewRecorder()
	app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/comments/42", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
