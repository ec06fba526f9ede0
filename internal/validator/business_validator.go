package validator

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/volunteerhub/event-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateEventCreate validates event creation business rules
func (bv *BusinessValidator) ValidateEventCreate(req *EventCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateEventDates(req)...)

	return errors
}

// ValidateDonationCreate validates donation creation business rules: monetary
// donations carry an amount, everything else a quantity.
func (bv *BusinessValidator) ValidateDonationCreate(req *DonationCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.DonationTypeID == models.MonetaryDonationTypeID {
		if req.Amount == nil || *req.Amount <= 0 {
			errors = append(errors, ValidationError{
				Field:   "amount",
				Message: "amount is required for monetary donations",
				Value:   req.Amount,
				Rule:    "business_logic",
			})
		}
	} else {
		if req.Quantity == nil || *req.Quantity <= 0 {
			errors = append(errors, ValidationError{
				Field:   "quantity",
				Message: "quantity is required for non-monetary donations",
				Value:   req.Quantity,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateAvailability validates declared slots against the event window.
func (bv *BusinessValidator) ValidateAvailability(req *AvailabilityRequest, event *models.Event) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	if len(errors) > 0 {
		return errors
	}

	eventStart := truncateToDay(event.StartDate)
	eventEnd := truncateToDay(event.EndDate)

	for i, slot := range req.AvailabilitySlots {
		day, err := time.Parse("2006-01-02", slot.AvailabilityDate)
		if err != nil {
			// Already rejected by the date_format rule; skip window checks.
			continue
		}

		if day.Before(eventStart) || day.After(eventEnd) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("availability_slots[%d].availability_date", i),
				Message: "selected date is outside the event timeframe",
				Value:   slot.AvailabilityDate,
				Rule:    "business_logic",
			})
		}

		start := parseClock(slot.StartTime)
		end := parseClock(slot.EndTime)
		if !start.Before(end) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("availability_slots[%d].end_time", i),
				Message: "end time must be after start time",
				Value:   slot.EndTime,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateStatusTransition validates registration status transitions against
// the fixed transition table.
func (bv *BusinessValidator) ValidateStatusTransition(current, next models.RegistrationStatus) ValidationErrors {
	if current.CanTransitionTo(next) {
		return nil
	}

	return ValidationErrors{{
		Field:   "status",
		Message: fmt.Sprintf("cannot transition from %s to %s", current, next),
		Value:   next,
		Rule:    "status_transition",
	}}
}

func (bv *BusinessValidator) validateEventDates(req *EventCreateRequest) ValidationErrors {
	var errors ValidationErrors

	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && !req.EndDate.After(req.StartDate) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after start date",
			Value:   req.EndDate,
			Rule:    "business_logic",
		})
	}

	if req.DonationGoal != nil && req.EventType != "" && !req.EventType.AcceptsDonations() {
		errors = append(errors, ValidationError{
			Field:   "donation_goal",
			Message: "only donation or mixed events may carry a donation goal",
			Value:   *req.DonationGoal,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("event_type", func(fl validator.FieldLevel) bool {
		t := models.EventType(fl.Field().String())
		switch t {
		case models.EventVolunteer, models.EventDonation, models.EventTeaching, models.EventMixed:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("registration_status", func(fl validator.FieldLevel) bool {
		s := models.RegistrationStatus(fl.Field().String())
		switch s {
		case models.RegistrationPending, models.RegistrationApproved,
			models.RegistrationDeclined, models.RegistrationCompleted:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("donation_status", func(fl validator.FieldLevel) bool {
		s := models.DonationStatus(fl.Field().String())
		switch s {
		case models.DonationPending, models.DonationReceived, models.DonationDistributed:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		r := models.UserRole(fl.Field().String())
		return r == models.RoleAdmin || r == models.RoleMember
	})

	bv.validate.RegisterValidation("date_format", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	bv.validate.RegisterValidation("time_format", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if _, err := time.Parse("15:04", v); err == nil {
			return true
		}
		_, err := time.Parse("15:04:05", v)
		return err == nil
	})
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseClock parses "15:04" or "15:04:05"; zero time when invalid, which the
// format rules have already reported.
func parseClock(v string) time.Time {
	if t, err := time.Parse("15:04", v); err == nil {
		return t
	}
	t, _ := time.Parse("15:04:05", v)
	return t
}
