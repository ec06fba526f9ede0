package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/volunteerhub/event-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyEventFilters applies common filters to event queries
func (h *SharedHelpers) ApplyEventFilters(query *gorm.DB, filters repositories.EventFilters) *gorm.DB {
	if filters.EventType != nil {
		query = query.Where("event_type = ?", *filters.EventType)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_date <= ?", *filters.DateTo)
	}
	return query
}

// ApplyRegistrationFilters applies common filters to registration queries
func (h *SharedHelpers) ApplyRegistrationFilters(query *gorm.DB, filters repositories.RegistrationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("registrations.status = ?", *filters.Status)
	}
	if filters.EventID != nil {
		query = query.Where("registrations.event_id = ?", *filters.EventID)
	}
	if filters.UserID != nil {
		query = query.Where("registrations.user_id = ?", *filters.UserID)
	}
	if filters.RoleID != nil {
		query = query.Where("registrations.role_id = ?", *filters.RoleID)
	}
	return query
}

// ApplyDonationFilters applies common filters to donation queries
func (h *SharedHelpers) ApplyDonationFilters(query *gorm.DB, filters repositories.DonationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("donations.status = ?", *filters.Status)
	}
	if filters.EventID != nil {
		query = query.Where("donations.event_id = ?", *filters.EventID)
	}
	if filters.UserID != nil {
		query = query.Where("donations.user_id = ?", *filters.UserID)
	}
	if filters.DonationTypeID != nil {
		query = query.Where("donations.donation_type_id = ?", *filters.DonationTypeID)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and ordering to a query. Sort
// columns are whitelisted by the caller; unknown values fall back to the
// default ordering.
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool, defaultSort string, limit, offset int) *gorm.DB {
	order := defaultSort
	if sortBy != "" && allowed[sortBy] {
		direction := "ASC"
		if sortOrder == "desc" {
			direction = "DESC"
		}
		order = fmt.Sprintf("%s %s", sortBy, direction)
	}
	query = query.Order(order)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
