package models

import "time"

// RedirectHistory is an append-only audit row written whenever a
// destination changes. ToURL is "" when the platform was disabled.
type RedirectHistory struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	BusinessID uint      `gorm:"not null;index" json:"business_id"`
	Platform   string    `gorm:"type:varchar(16);not null" json:"platform"`
	FromURL    *string   `json:"from_url"`
	ToURL      string    `gorm:"not null" json:"to_url"`
}

// TableName overrides the pluralised default.
func (RedirectHistory) TableName() string {
	return "redirect_history"
}
