package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/oksasatya/user-registry/internal/application"
	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/internal/infrastructure/memory"
	"github.com/oksasatya/user-registry/pkg/helpers"
	"github.com/oksasatya/user-registry/pkg/response"
	"github.com/oksasatya/user-registry/pkg/validation"
)

const validBody = `{
	"email": {"email": "123@gmail.com"},
	"firstName": "Arturo",
	"lastName": "Roman",
	"address": {"country": "Ukraine", "city": "Kiev", "street": "Shevchenko", "house": "15A"},
	"phone": {"phone": "0672443456"},
	"birthdate": "2000-12-30"
}`

type fixture struct {
	engine *gin.Engine
	repo   *memory.UserRepository
	svc    *userapp.Service
}

func newFixture(t *testing.T, renderer validation.Renderer) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewUserRepository()
	logger := helpers.NewDiscardLogger()
	svc := userapp.NewService(repo, userapp.Config{MinAge: 18}, logger,
		userapp.WithClock(func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local) }))
	h := NewUserHandler(svc, logger, renderer)

	r := gin.New()
	r.GET("/users/find-people-between-dates", h.FindBetween)
	r.GET("/users/:id", h.GetByID)
	r.POST("/users/new", h.Create)
	r.PATCH("/users/:id", h.Update)
	r.DELETE("/users/:id", h.Delete)
	return &fixture{engine: r, repo: repo, svc: svc}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) seed(t *testing.T, birthdate civil.Date) int {
	t.Helper()
	u := &entity.User{
		Email:     &entity.Email{Email: "seed@gmail.com"},
		FirstName: "Seed",
		LastName:  "User",
		Birthdate: birthdate,
	}
	require.NoError(t, f.repo.Create(context.Background(), u))
	return u.ID
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{name: "valid", body: validBody, status: http.StatusOK},
		{
			name:    "underage",
			body:    strings.Replace(validBody, "2000-12-30", "2010-12-30", 1),
			status:  http.StatusUnprocessableEntity,
			message: "This user is under 18",
		},
		{
			name:    "blank_names",
			body:    `{"email":{"email":"123@gmail.com"},"firstName":"","lastName":"","birthdate":"2000-12-30"}`,
			status:  http.StatusUnprocessableEntity,
			message: "firstName - must not be blanklastName - must not be blank",
		},
		{
			name:    "bad_email",
			body:    strings.Replace(validBody, "123@gmail.com", "gmail.com", 1),
			status:  http.StatusUnprocessableEntity,
			message: "email.email - Wrong email format",
		},
		{
			name:    "future_birthdate",
			body:    strings.Replace(validBody, "2000-12-30", "2030-01-01", 1),
			status:  http.StatusUnprocessableEntity,
			message: "birthdate - must be a past date",
		},
		{
			name:    "null_birthdate",
			body:    strings.Replace(validBody, `"2000-12-30"`, "null", 1),
			status:  http.StatusUnprocessableEntity,
			message: "birthdate - must not be null",
		},
		{
			name:    "malformed_json",
			body:    `{"firstName":`,
			status:  http.StatusBadRequest,
			message: "invalid json",
		},
		{
			name:    "bad_date_format",
			body:    strings.Replace(validBody, "2000-12-30", "30.12.2000", 1),
			status:  http.StatusBadRequest,
			message: "dates must be formatted as YYYY-MM-DD",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			w := f.do(http.MethodPost, "/users/new", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Empty(t, w.Body.String())
				u, err := f.repo.FindByID(context.Background(), 1)
				require.NoError(t, err)
				assert.Equal(t, "Arturo", u.FirstName)
				return
			}
			assert.Equal(t, tt.message, errorMessage(t, w))
		})
	}
}

func TestCreateListRenderer(t *testing.T) {
	f := newFixture(t, validation.ListRenderer)
	w := f.do(http.MethodPost, "/users/new", `{"email":{"email":"123@gmail.com"},"birthdate":"2000-12-30"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "firstName - must not be blank; lastName - must not be blank", errorMessage(t, w))
}

func TestGetByID(t *testing.T) {
	f := newFixture(t, nil)
	id := f.seed(t, civil.Date{Year: 2000, Month: 12, Day: 30})

	w := f.do(http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, id, got["id"])
	assert.Equal(t, "2000-12-30", got["birthdate"])
	assert.Equal(t, "Seed", got["firstName"])
	assert.Nil(t, got["address"])

	w = f.do(http.MethodGet, "/users/42", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User with this id wasn't found", errorMessage(t, w))

	w = f.do(http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUsesPathID(t *testing.T) {
	f := newFixture(t, nil)
	body := strings.Replace(validBody, "{\n", "{\n\t\"id\": 99,\n", 1)

	w := f.do(http.MethodPatch, "/users/5", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	u, err := f.repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Arturo", u.FirstName)
	_, err = f.repo.FindByID(context.Background(), 99)
	assert.Error(t, err)
}

func TestUpdateRejections(t *testing.T) {
	f := newFixture(t, nil)
	id := f.seed(t, civil.Date{Year: 2000, Month: 12, Day: 30})

	w := f.do(http.MethodPatch, "/users/1", strings.Replace(validBody, "2000-12-30", "2010-12-30", 1))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "This user is under 18", errorMessage(t, w))

	u, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Seed", u.FirstName)

	w = f.do(http.MethodPatch, "/users/x", validBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, civil.Date{Year: 2000, Month: 12, Day: 30})

	w := f.do(http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = f.do(http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFindBetween(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, civil.Date{Year: 2002, Month: 12, Day: 31})
	f.seed(t, civil.Date{Year: 2001, Month: 11, Day: 6})

	tests := []struct {
		name    string
		query   string
		status  int
		count   int
		message string
	}{
		{name: "both", query: "from=2001-01-01&to=2003-01-01", status: http.StatusOK, count: 2},
		{name: "documented_example", query: "from=2000-11-12&to=2003-07-02", status: http.StatusOK, count: 2},
		{name: "inclusive", query: "from=2001-11-06&to=2002-12-31", status: http.StatusOK, count: 2},
		{name: "empty", query: "from=1990-01-01&to=1991-01-01", status: http.StatusOK, count: 0},
		{name: "reversed", query: "from=2003-01-01&to=2001-01-01", status: http.StatusBadRequest, message: "From must be less than To"},
		{name: "equal", query: "from=2001-01-01&to=2001-01-01", status: http.StatusBadRequest, message: "From must be less than To"},
		{name: "bad_format", query: "from=01-01-2001&to=2003-01-01", status: http.StatusBadRequest, message: msgDateFormat},
		{name: "missing", query: "from=2001-01-01", status: http.StatusBadRequest, message: "from and to are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodGet, "/users/find-people-between-dates?"+tt.query, "")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.message, errorMessage(t, w))
				return
			}
			var users []entity.User
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
			assert.Len(t, users, tt.count)
			assert.True(t, strings.HasPrefix(w.Body.String(), "["), "result is always an array")
		})
	}
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := helpers.NewDiscardLogger()

	r := gin.New()
	r.GET("/ok", NewHealthHandler(memory.NewUserRepository(), logger).Health)
	r.GET("/down", NewHealthHandler(downStore{}, logger).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRejectsNonPositiveIDs(t *testing.T) {
	f := newFixture(t, nil)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "get_zero", method: http.MethodGet, path: "/users/0"},
		{name: "patch_zero", method: http.MethodPatch, path: "/users/0", body: validBody},
		{name: "patch_negative", method: http.MethodPatch, path: "/users/-3", body: validBody},
		{name: "delete_negative", method: http.MethodDelete, path: "/users/-1"},
		{name: "not_a_number", method: http.MethodGet, path: "/users/abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "id must be a positive integer", errorMessage(t, w))
		})
	}

	users, err := f.repo.FindByBirthdateBetween(context.Background(), civil.Date{Year: 1900, Month: 1, Day: 1}, civil.Date{Year: 2100, Month: 1, Day: 1})
	require.NoError(t, err)
	assert.Empty(t, users, "nothing is written at a non-positive id")
}
