package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, requesterID int64, description string) (*itemrequest.ItemRequest, error) {
	args := m.Called(ctx, requesterID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itemrequest.ItemRequest), args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, id, viewerID int64) (*itemrequest.ItemRequest, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itemrequest.ItemRequest), args.Error(1)
}

func (m *mockService) ListOwn(ctx context.Context, requesterID int64) ([]*itemrequest.ItemRequest, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]*itemrequest.ItemRequest), args.Error(1)
}

func (m *mockService) ListOthers(ctx context.Context, userID int64, page pagination.Page) ([]*itemrequest.ItemRequest, error) {
	args := m.Called(ctx, userID, page)
	return args.Get(0).([]*itemrequest.ItemRequest), args.Error(1)
}

func (m *mockService) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func setupRouter(svc itemrequest.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc), auth.UserRequired())
	return r
}

func executeRequest(r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.UserIDHeader, "4")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestItemRequestRoutes(t *testing.T) {
	svc := new(mockService)
	created := &itemrequest.ItemRequest{ID: 1, Description: "Need a tent", RequesterID: 4}
	svc.On("Create", mock.Anything, int64(4), "Need a tent").Return(created, nil)
	svc.On("ListOwn", mock.Anything, int64(4)).Return([]*itemrequest.ItemRequest{created}, nil)
	svc.On("ListOthers", mock.Anything, int64(4), pagination.Page{From: 5, Size: 5}).
		Return([]*itemrequest.ItemRequest{}, nil)
	svc.On("GetByID", mock.Anything, int64(99), int64(4)).Return(nil, itemrequest.ErrNotFound)
	r := setupRouter(svc)

	t.Run("Create", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/requests", CreateItemRequestRequest{Description: "Need a tent"})
		require.Equal(t, http.StatusCreated, w.Code)
		var got ItemRequestResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Need a tent", got.Description)
		assert.Empty(t, got.Items)
	})

	t.Run("Create Empty", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/requests", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List Own", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/requests", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got []ItemRequestResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got, 1)
	})

	t.Run("List All", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/requests/all?from=5&size=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Get Missing", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/requests/99", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
