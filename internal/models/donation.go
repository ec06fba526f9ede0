package models

import (
	"time"
)

type DonationStatus string

const (
	DonationPending     DonationStatus = "pending"
	DonationReceived    DonationStatus = "received"
	DonationDistributed DonationStatus = "distributed"
)

// MonetaryDonationTypeID is the fixed donation type for money donations,
// tracked by amount rather than quantity.
const MonetaryDonationTypeID uint = 1

// CountsTowardTotals reports whether the donation status is included in
// aggregated totals. Pending donations are excluded until confirmed.
func (s DonationStatus) CountsTowardTotals() bool {
	return s == DonationReceived || s == DonationDistributed
}

type DonationType struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"not null;uniqueIndex;size:100" validate:"required,max=100"`
	UnitOfMeasure *string `json:"unit_of_measure" gorm:"size:50" validate:"omitempty,max=50"`
}

type Donation struct {
	ID             uint  `json:"id" gorm:"primaryKey"`
	EventID        uint  `json:"event_id" gorm:"not null;index"`
	UserID         *uint `json:"user_id" gorm:"index"` // nil means anonymous
	DonationTypeID uint  `json:"donation_type_id" gorm:"not null;index"`

	Amount          *float64 `json:"amount" validate:"omitempty,gt=0"`
	Quantity        *int     `json:"quantity" validate:"omitempty,gt=0"`
	ItemDescription *string  `json:"item_description" gorm:"size:500" validate:"omitempty,max=500"`

	Status       DonationStatus `json:"status" gorm:"not null;default:pending;size:20" validate:"omitempty,donation_status"`
	DonationDate time.Time      `json:"donation_date" gorm:"autoCreateTime"`

	// Relations
	Event        Event        `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	User         *User        `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	DonationType DonationType `json:"-" gorm:"foreignKey:DonationTypeID"`

	// Joined display fields, populated by list queries.
	DonationTypeName string  `json:"donation_type,omitempty" gorm:"-"`
	UnitOfMeasure    *string `json:"unit_of_measure,omitempty" gorm:"-"`
	Username         *string `json:"username,omitempty" gorm:"-"`
	DonorName        *string `json:"donor_name,omitempty" gorm:"-"`
	EventName        string  `json:"event_name,omitempty" gorm:"-"`
}

func (DonationType) TableName() string {
	return "donation_types"
}

func (Donation) TableName() string {
	return "donations"
}

// IsMonetary reports whether the donation is tracked by amount.
func (d *Donation) IsMonetary() bool {
	return d.DonationTypeID == MonetaryDonationTypeID
}
