package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/services"
	"github.com/volunteerhub/event-service/internal/utils"
	"github.com/volunteerhub/event-service/internal/validator"
)

type capturingUserService struct {
	services.UserService
	lastFilters repositories.UserFilters
}

func (f *capturingUserService) List(ctx context.Context, filters repositories.UserFilters) (*services.UserListResponse, error) {
	f.lastFilters = filters
	return &services.UserListResponse{}, nil
}

func TestListUsersRoleFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	newRouter := func(svc services.UserService) *gin.Engine {
		h := NewUserHandler(svc, validator.New(), logger)
		router := gin.New()
		router.GET("/users", h.ListUsers)
		return router
	}

	t.Run("blank role does not filter", func(t *testing.T) {
		svc := &capturingUserService{}
		router := newRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?role=", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if svc.lastFilters.Role != nil {
			t.Errorf("expected no role filter, got %q", *svc.lastFilters.Role)
		}
	})

	t.Run("role filter is passed through", func(t *testing.T) {
		svc := &capturingUserService{}
		router := newRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?role=admin", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if svc.lastFilters.Role == nil || *svc.lastFilters.Role != models.RoleAdmin {
			t.Errorf("expected admin role filter, got %v", svc.lastFilters.Role)
		}
	})
}
