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

type fakeEventService struct {
	services.EventService
	lastFilters repositories.EventFilters
}

func (f *fakeEventService) List(ctx context.Context, filters repositories.EventFilters) (*services.EventListResponse, error) {
	f.lastFilters = filters
	return &services.EventListResponse{}, nil
}

func (f *fakeEventService) Search(ctx context.Context, query string, filters repositories.EventFilters) (*services.EventListResponse, error) {
	f.lastFilters = filters
	return &services.EventListResponse{}, nil
}

func newEventTestRouter(eventService services.EventService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewEventHandler(eventService, nil, nil, validator.New(), logger)

	router := gin.New()
	router.GET("/events", h.ListEvents)
	router.GET("/events/type/:type", h.ListEventsByType)
	return router
}

func TestEventListFilters(t *testing.T) {
	t.Run("blank category does not filter", func(t *testing.T) {
		svc := &fakeEventService{}
		router := newEventTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?category=", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if svc.lastFilters.Category != nil {
			t.Errorf("expected no category filter, got %q", *svc.lastFilters.Category)
		}
		if svc.lastFilters.EventType != nil {
			t.Errorf("expected no type filter, got %q", *svc.lastFilters.EventType)
		}
	})

	t.Run("category filter is passed through", func(t *testing.T) {
		svc := &fakeEventService{}
		router := newEventTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?category=environment", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if svc.lastFilters.Category == nil || *svc.lastFilters.Category != "environment" {
			t.Errorf("expected category filter, got %v", svc.lastFilters.Category)
		}
	})

	t.Run("type route pins the event type", func(t *testing.T) {
		svc := &fakeEventService{}
		router := newEventTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/type/donation", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if svc.lastFilters.EventType == nil || *svc.lastFilters.EventType != models.EventDonation {
			t.Errorf("expected donation type filter, got %v", svc.lastFilters.EventType)
		}
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		svc := &fakeEventService{}
		router := newEventTestRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/type/raffle", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}
