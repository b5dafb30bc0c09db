package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName          string     `gorm:"type:varchar(255);not null"`
	Strasse           string     `gorm:"type:varchar(255);not null"`
	PLZ               string     `gorm:"column:plz;type:varchar(20);not null"`
	Stadt             string     `gorm:"type:varchar(100);not null"`
	Land              string     `gorm:"type:varchar(100);not null"`
	Firmenname        *string    `gorm:"type:varchar(255)"`
	UstIDNr           *string    `gorm:"column:ust_idnr;type:varchar(50)"`
	PasswordHash      string     `gorm:"type:varchar(255);not null"`
	TokenBalance      int        `gorm:"not null"`
	TokensExpireAt    time.Time  `gorm:"not null"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending'"`
	VerificationToken *string    `gorm:"type:varchar(255);index"`
	CredentialVersion int        `gorm:"not null;default:1"`
	CreatedAt         time.Time
	VerifiedAt        *time.Time `gorm:"type:timestamp"`
	UpdatedAt         time.Time
}

func (Account) TableName() string {
	return "accounts"
}
