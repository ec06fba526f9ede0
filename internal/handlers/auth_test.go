package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/volunteerhub/event-service/internal/models"
	"github.com/volunteerhub/event-service/internal/repositories"
	"github.com/volunteerhub/event-service/internal/services"
)

type fakeUserService struct {
	services.UserService
	authenticateFn func(ctx context.Context, username, password string) (*models.User, error)
}

func (f *fakeUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(ctx, username, password)
	}
	return nil, services.ErrInvalidCredentials
}

func (f *fakeUserService) List(ctx context.Context, filters repositories.UserFilters) (*services.UserListResponse, error) {
	return &services.UserListResponse{}, nil
}

func newAuthTestRouter(userService services.UserService) (*gin.Engine, *HeaderAuthMiddleware) {
	gin.SetMode(gin.TestMode)
	am := NewHeaderAuthMiddleware(userService, "admin-secret")

	router := gin.New()
	authed := router.Group("", am.AuthMiddleware())
	authed.GET("/whoami", func(c *gin.Context) {
		user := currentUser(c)
		c.JSON(http.StatusOK, gin.H{"role": user.Role, "id": user.ID})
	})
	authed.GET("/admin-only", am.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	authed.GET("/users/:userId/things", am.RequireSameUser("userId"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return router, am
}

func doRequest(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	member := &models.User{ID: 5, Username: "volunteer1", Role: models.RoleMember}
	userService := &fakeUserService{
		authenticateFn: func(_ context.Context, username, password string) (*models.User, error) {
			if username == "volunteer1" && password == "supersecret" {
				return member, nil
			}
			return nil, services.ErrInvalidCredentials
		},
	}
	router, _ := newAuthTestRouter(userService)

	t.Run("valid user credentials", func(t *testing.T) {
		w := doRequest(router, "/whoami", map[string]string{
			"username": "volunteer1",
			"password": "supersecret",
		})
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doRequest(router, "/whoami", map[string]string{
			"username": "volunteer1",
			"password": "wrong",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		w := doRequest(router, "/whoami", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("admin password grants admin without account", func(t *testing.T) {
		w := doRequest(router, "/admin-only", map[string]string{
			"admin-password": "admin-secret",
		})
		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})

	t.Run("wrong admin password", func(t *testing.T) {
		w := doRequest(router, "/whoami", map[string]string{
			"admin-password": "guess",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("admin password wins over user headers", func(t *testing.T) {
		// When both are present the admin header is checked first; a bad
		// admin password is rejected even with valid user credentials.
		w := doRequest(router, "/whoami", map[string]string{
			"admin-password": "guess",
			"username":       "volunteer1",
			"password":       "supersecret",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	member := &models.User{ID: 5, Role: models.RoleMember}
	userService := &fakeUserService{
		authenticateFn: func(_ context.Context, _, _ string) (*models.User, error) {
			return member, nil
		},
	}
	router, _ := newAuthTestRouter(userService)

	w := doRequest(router, "/admin-only", map[string]string{
		"username": "volunteer1",
		"password": "supersecret",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireSameUser(t *testing.T) {
	member := &models.User{ID: 5, Role: models.RoleMember}
	userService := &fakeUserService{
		authenticateFn: func(_ context.Context, _, _ string) (*models.User, error) {
			return member, nil
		},
	}
	router, _ := newAuthTestRouter(userService)

	creds := map[string]string{"username": "volunteer1", "password": "supersecret"}

	t.Run("own resource", func(t *testing.T) {
		w := doRequest(router, "/users/5/things", creds)
		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})

	t.Run("another user's resource", func(t *testing.T) {
		w := doRequest(router, "/users/6/things", creds)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("admin may act for anyone", func(t *testing.T) {
		w := doRequest(router, "/users/6/things", map[string]string{
			"admin-password": "admin-secret",
		})
		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})
}
