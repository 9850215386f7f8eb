package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Director struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	DOB         datatypes.Date `json:"dob" gorm:"not null"`
	Nationality string         `json:"nationality" gorm:"not null"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// UpdateDirectorParams carries a partial director update; nil fields are left as they are.
type UpdateDirectorParams struct {
	Name        *string
	DOB         *time.Time
	Nationality *string
}
