package domain

import "time"

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"size:191;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
