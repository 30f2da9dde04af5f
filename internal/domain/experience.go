package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DateLayout is the wire format of experience dates.
const DateLayout = "2006-01-02"

// OngoingEndDate is accepted in place of an end date for a current position.
const OngoingEndDate = "until now"

type Experience struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uuid.UUID       `json:"userId" gorm:"type:uuid;not null;index"`
	CompanyName string          `json:"companyName" gorm:"size:128;not null"`
	Role        string          `json:"role" gorm:"size:256;not null"`
	StartDate   datatypes.Date  `json:"startDate" gorm:"not null"`
	EndDate     *datatypes.Date `json:"endDate"`
	Description string          `json:"description" gorm:"type:text;not null"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Experience) TableName() string {
	return "experiences"
}

// IsOngoing reports whether the position has no end date.
func (e *Experience) IsOngoing() bool {
	return e.EndDate == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return datatypes.Date{}, ErrInvalidDate
	}
	return datatypes.Date(t), nil
}

// ParseEndDate parses an optional end date. Empty and "until now" mean ongoing.
func ParseEndDate(value string) (*datatypes.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, OngoingEndDate) {
		return nil, nil
	}
	d, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FormatDate renders a date in DateLayout.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// FormatEndDate renders an optional end date, nil when ongoing.
func FormatEndDate(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	return &s
}
