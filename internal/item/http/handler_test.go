package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/pagination"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, ownerID int64, req item.CreateRequest) (*item.Item, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, ownerID, itemID int64, req item.UpdateRequest) (*item.Item, error) {
	args := m.Called(ctx, ownerID, itemID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *mockService) GetItem(ctx context.Context, itemID int64) (*item.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, itemID, viewerID int64) (*item.Detail, error) {
	args := m.Called(ctx, itemID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Detail), args.Error(1)
}

func (m *mockService) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]*item.Detail, error) {
	args := m.Called(ctx, ownerID, page)
	return args.Get(0).([]*item.Detail), args.Error(1)
}

func (m *mockService) Search(ctx context.Context, text string, page pagination.Page) ([]*item.Item, error) {
	args := m.Called(ctx, text, page)
	return args.Get(0).([]*item.Item), args.Error(1)
}

func (m *mockService) AddComment(ctx context.Context, itemID, authorID int64, text string) (*item.Comment, error) {
	args := m.Called(ctx, itemID, authorID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Comment), args.Error(1)
}

func setupRouter(svc item.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc), auth.UserRequired())
	return r
}

func executeRequest(r *gin.Engine, method, url, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(auth.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateItem(t *testing.T) {
	available := true

	t.Run("Created", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, int64(1), item.CreateRequest{
			Name: "Drill", Description: "Cordless", Available: &available,
		}).Return(&item.Item{ID: 3, Name: "Drill", Description: "Cordless", Available: true, OwnerID: 1}, nil)
		r := setupRouter(svc)

		w := executeRequest(r, http.MethodPost, "/items", "1",
			CreateItemRequest{Name: "Drill", Description: "Cordless", Available: &available})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":3,"name":"Drill","description":"Cordless","available":true,"requestId":null}`, w.Body.String())
	})

	t.Run("Missing Available", func(t *testing.T) {
		r := setupRouter(new(mockService))

		w := executeRequest(r, http.MethodPost, "/items", "1", map[string]string{"name": "Drill", "description": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateItem_Forbidden(t *testing.T) {
	name := "Hammer"
	svc := new(mockService)
	svc.On("Update", mock.Anything, int64(2), int64(3), item.UpdateRequest{Name: &name}).Return(nil, item.ErrForbidden)
	r := setupRouter(svc)

	w := executeRequest(r, http.MethodPatch, "/items/3", "2", UpdateItemRequest{Name: &name})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetItem_Detail(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := new(mockService)
	svc.On("GetByID", mock.Anything, int64(3), int64(1)).Return(&item.Detail{
		Item:        &item.Item{ID: 3, Name: "Drill", Available: true, OwnerID: 1},
		NextBooking: &item.BookingShort{ID: 9, BookerID: 2, Start: start, End: start.Add(time.Hour)},
		Comments:    []*item.Comment{{ID: 4, Text: "Nice", AuthorName: "Bob", CreatedAt: start}},
	}, nil)
	r := setupRouter(svc)

	w := executeRequest(r, http.MethodGet, "/items/3", "1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got ItemDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Nil(t, got.LastBooking)
	require.NotNil(t, got.NextBooking)
	assert.Equal(t, int64(2), got.NextBooking.BookerID)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "Bob", got.Comments[0].AuthorName)
}

func TestSearchItems(t *testing.T) {
	svc := new(mockService)
	svc.On("Search", mock.Anything, "drill", pagination.Page{From: 0, Size: 20}).
		Return([]*item.Item{{ID: 3, Name: "Drill", Available: true}}, nil)
	r := setupRouter(svc)

	w := executeRequest(r, http.MethodGet, "/items/search?text=drill&size=20", "1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []ItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	svc.AssertExpectations(t)
}

func TestAddComment(t *testing.T) {
	t.Run("No Completed Booking", func(t *testing.T) {
		svc := new(mockService)
		svc.On("AddComment", mock.Anything, int64(3), int64(2), "Nice").Return(nil, item.ErrNoCompletedBooking)
		r := setupRouter(svc)

		w := executeRequest(r, http.MethodPost, "/items/3/comment", "2", CreateCommentRequest{Text: "Nice"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Created", func(t *testing.T) {
		svc := new(mockService)
		svc.On("AddComment", mock.Anything, int64(3), int64(2), "Nice").
			Return(&item.Comment{ID: 1, ItemID: 3, AuthorID: 2, AuthorName: "Bob", Text: "Nice"}, nil)
		r := setupRouter(svc)

		w := executeRequest(r, http.MethodPost, "/items/3/comment", "2", CreateCommentRequest{Text: "Nice"})

		require.Equal(t, http.StatusOK, w.Code)
		var got CommentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Bob", got.AuthorName)
	})
}
