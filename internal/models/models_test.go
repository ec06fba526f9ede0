package models

import (
	"testing"
)

func TestRegistrationStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    RegistrationStatus
		to      RegistrationStatus
		allowed bool
	}{
		{"pending to approved", RegistrationPending, RegistrationApproved, true},
		{"pending to declined", RegistrationPending, RegistrationDeclined, true},
		{"pending to completed", RegistrationPending, RegistrationCompleted, false},
		{"approved to completed", RegistrationApproved, RegistrationCompleted, true},
		{"approved to declined", RegistrationApproved, RegistrationDeclined, true},
		{"approved to pending", RegistrationApproved, RegistrationPending, false},
		{"declined reopened to pending", RegistrationDeclined, RegistrationPending, true},
		{"declined to approved", RegistrationDeclined, RegistrationApproved, false},
		{"completed is terminal", RegistrationCompleted, RegistrationPending, false},
		{"completed to declined", RegistrationCompleted, RegistrationDeclined, false},
		{"no self transition", RegistrationPending, RegistrationPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestRegistrationStatusIsActive(t *testing.T) {
	active := map[RegistrationStatus]bool{
		RegistrationPending:   true,
		RegistrationApproved:  true,
		RegistrationDeclined:  false,
		RegistrationCompleted: false,
	}

	for status, want := range active {
		if got := status.IsActive(); got != want {
			t.Errorf("%s.IsActive() = %v, want %v", status, got, want)
		}
	}
}

func TestEventRoleSetOccupancy(t *testing.T) {
	t.Run("normal fill", func(t *testing.T) {
		role := EventRole{Capacity: 10}
		role.SetOccupancy(4)
		if role.FilledSpots != 4 || role.AvailableSpots != 6 {
			t.Errorf("got filled=%d available=%d", role.FilledSpots, role.AvailableSpots)
		}
	})

	t.Run("overbooked role clamps to zero", func(t *testing.T) {
		// Capacity lowered after signups were taken.
		role := EventRole{Capacity: 3}
		role.SetOccupancy(5)
		if role.AvailableSpots != 0 {
			t.Errorf("available spots = %d, want 0", role.AvailableSpots)
		}
		if role.FilledSpots != 5 {
			t.Errorf("filled spots = %d, want 5", role.FilledSpots)
		}
	})

	t.Run("negative count treated as zero", func(t *testing.T) {
		role := EventRole{Capacity: 3}
		role.SetOccupancy(-1)
		if role.FilledSpots != 0 || role.AvailableSpots != 3 {
			t.Errorf("got filled=%d available=%d", role.FilledSpots, role.AvailableSpots)
		}
	})
}

func TestDonationProgress(t *testing.T) {
	tests := []struct {
		name  string
		goal  float64
		total float64
		want  int
	}{
		{"quarter", 1000, 250, 25},
		{"exact goal", 500, 500, 100},
		{"over goal clamps", 100, 250, 100},
		{"rounds to nearest", 300, 100, 33},
		{"rounds up", 3, 2, 67},
		{"zero goal", 0, 500, 0},
		{"negative goal", -10, 500, 0},
		{"nothing collected", 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DonationProgress(tt.goal, tt.total); got != tt.want {
				t.Errorf("DonationProgress(%v, %v) = %d, want %d", tt.goal, tt.total, got, tt.want)
			}
		})
	}
}

func TestDonationStatusCountsTowardTotals(t *testing.T) {
	counts := map[DonationStatus]bool{
		DonationPending:     false,
		DonationReceived:    true,
		DonationDistributed: true,
	}

	for status, want := range counts {
		if got := status.CountsTowardTotals(); got != want {
			t.Errorf("%s.CountsTowardTotals() = %v, want %v", status, got, want)
		}
	}
}

func TestEventTypeAcceptsDonations(t *testing.T) {
	accepts := map[EventType]bool{
		EventVolunteer: false,
		EventTeaching:  false,
		EventDonation:  true,
		EventMixed:     true,
	}

	for eventType, want := range accepts {
		if got := eventType.AcceptsDonations(); got != want {
			t.Errorf("%s.AcceptsDonations() = %v, want %v", eventType, got, want)
		}
	}
}

func TestDonationIsMonetary(t *testing.T) {
	monetary := Donation{DonationTypeID: MonetaryDonationTypeID}
	if !monetary.IsMonetary() {
		t.Error("donation with the monetary type should be monetary")
	}

	inKind := Donation{DonationTypeID: 2}
	if inKind.IsMonetary() {
		t.Error("in-kind donation should not be monetary")
	}
}
