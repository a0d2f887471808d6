package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DriverLocation is the last reported position of a driver.
type DriverLocation struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Driver represents a delivery driver.
//
// CurrentOrderID is set together with the busy status when an order is
// assigned and cleared together with the available status on delivery
// completion or cancellation. Rating and stats columns are mutated only
// as side effects of order lifecycle transitions.
type Driver struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"not null" json:"name"`
	Email           string          `gorm:"uniqueIndex;not null" json:"email"`
	Password        string          `gorm:"not null" json:"-"`
	Phone           string          `gorm:"not null" json:"phone"`
	IDCardNumber    string          `gorm:"not null" json:"id_card_number"`
	LicenseNumber   string          `gorm:"not null" json:"license_number"`
	VehicleType     string          `gorm:"not null;default:'motorcycle'" json:"vehicle_type"` // motorcycle, car, bicycle
	VehiclePlate    string          `gorm:"not null" json:"vehicle_plate"`
	VehicleColor    string          `json:"vehicle_color,omitempty"`
	Photo           string          `json:"photo,omitempty"`
	Status          string          `gorm:"not null;default:'offline';index" json:"status"`
	CurrentLocation *DriverLocation `gorm:"serializer:json" json:"current_location,omitempty"`
	CurrentOrderID  *uint           `gorm:"index" json:"current_order_id,omitempty"`
	CurrentOrder    *Order          `gorm:"foreignKey:CurrentOrderID" json:"current_order,omitempty"`
	ZoneID          *uint           `gorm:"index" json:"zone_id,omitempty"`
	Zone            *DeliveryZone   `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`
	IsActive        bool            `gorm:"not null" json:"is_active"`
	IsVerified      bool            `gorm:"not null;default:false" json:"is_verified"`

	RatingAverage float64 `gorm:"not null;default:0" json:"rating_average"` // running mean, bounded [0,5]
	RatingCount   int     `gorm:"not null;default:0" json:"rating_count"`

	TotalDeliveries     int     `gorm:"not null;default:0" json:"total_deliveries"`
	CompletedDeliveries int     `gorm:"not null;default:0" json:"completed_deliveries"`
	CancelledDeliveries int     `gorm:"not null;default:0" json:"cancelled_deliveries"`
	TotalEarnings       float64 `gorm:"not null;default:0" json:"total_earnings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Driver model
func (Driver) TableName() string {
	return "drivers"
}

// BeforeSave hashes the password whenever it is set in plain text.
func (d *Driver) BeforeSave(tx *gorm.DB) error {
	if d.Password == "" || len(d.Password) >= 2 && d.Password[:2] == "$2" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.Password = string(hashed)
	return nil
}

// MatchPassword compares a plain-text password against the stored hash.
func (d *Driver) MatchPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(plain)) == nil
}
