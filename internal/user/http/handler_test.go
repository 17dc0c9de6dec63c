package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// fakeService keeps users in memory.
type fakeService struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*user.User
}

func newFakeService() *fakeService {
	return &fakeService{users: make(map[int64]*user.User)}
}

func (f *fakeService) Create(_ context.Context, name, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, user.ErrEmailAlreadyUsed
		}
	}
	f.nextID++
	u := &user.User{ID: f.nextID, Name: name, Email: email}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeService) GetByID(_ context.Context, id int64) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeService) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := f.GetByID(ctx, id)
	return err == nil, nil
}

func (f *fakeService) List(_ context.Context, page pagination.Page) ([]*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*user.User
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return pagination.Slice(out, page), nil
}

func (f *fakeService) Update(ctx context.Context, id int64, req user.UpdateRequest) (*user.User, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	return u, nil
}

func (f *fakeService) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(newFakeService()))
	return r
}

func executeRequest(r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserCRUD(t *testing.T) {
	r := setupRouter()

	var created UserResponse
	t.Run("Create", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/users", CreateUserRequest{Name: "Alice", Email: "alice@example.com"})
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "Alice", created.Name)
	})

	t.Run("Create Duplicate Email", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/users", CreateUserRequest{Name: "Other", Email: "alice@example.com"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Create Invalid Email", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/users", CreateUserRequest{Name: "Other", Email: "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Get", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/users/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created, got)
	})

	t.Run("Get Missing", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/users/99", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"user not found"}`, w.Body.String())
	})

	t.Run("Update", func(t *testing.T) {
		name := "Alicia"
		w := executeRequest(r, http.MethodPatch, "/users/1", UpdateUserRequest{Name: &name})
		require.Equal(t, http.StatusOK, w.Code)
		var got UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Alicia", got.Name)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("List", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/users?from=0&size=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got []UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("List Invalid Size", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/users?size=0", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := executeRequest(r, http.MethodDelete, "/users/1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = executeRequest(r, http.MethodGet, "/users/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/users/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
