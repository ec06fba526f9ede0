package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	data := RegistrationEventData{RegistrationID: 1, UserID: 2, EventID: 3, Status: "pending"}
	event := NewEvent(EventRegistrationCreated, data)

	if event.ID == "" {
		t.Error("expected a generated event ID")
	}
	if event.Type != EventRegistrationCreated {
		t.Errorf("type = %q, want %q", event.Type, EventRegistrationCreated)
	}
	if event.Source != EventSource {
		t.Errorf("source = %q, want %q", event.Source, EventSource)
	}
	if event.Version != EventVersion {
		t.Errorf("version = %q, want %q", event.Version, EventVersion)
	}
	if time.Since(event.Timestamp) > time.Minute {
		t.Errorf("timestamp not current: %v", event.Timestamp)
	}

	second := NewEvent(EventRegistrationCreated, data)
	if second.ID == event.ID {
		t.Error("event IDs must be unique")
	}
}

func TestEventEnvelopeJSON(t *testing.T) {
	roleID := uint(7)
	event := NewEvent(EventRegistrationRoleChanged, RegistrationEventData{
		RegistrationID: 1,
		UserID:         2,
		EventID:        3,
		RoleID:         &roleID,
		Status:         "approved",
	})

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["type"] != EventRegistrationRoleChanged {
		t.Errorf("type = %v", decoded["type"])
	}
	data, ok := decoded["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", decoded["data"])
	}
	if data["role_id"] != float64(7) {
		t.Errorf("role_id = %v, want 7", data["role_id"])
	}
	if _, present := data["previous_status"]; present {
		t.Error("previous_status should be omitted when nil")
	}
}

func TestGoChannelPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := NewGoChannelEventPublisher(logger)
	defer publisher.Close()

	event := NewEvent(EventDonationRecorded, DonationEventData{
		DonationID:     1,
		EventID:        2,
		DonationTypeID: 1,
		Status:         "pending",
	})

	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if err := publisher.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := NewMockEventPublisher(logger)

	event := NewEvent(EventEventCreated, EventLifecycleData{EventID: 1, Name: "Food Drive"})
	if err := mock.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	published := mock.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].Type != EventEventCreated {
		t.Errorf("type = %q, want %q", published[0].Type, EventEventCreated)
	}
}
