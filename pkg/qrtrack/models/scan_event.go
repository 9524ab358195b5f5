package models

import "time"

// ScanEvent records one hit on a redirect endpoint. IPHash holds a one-way
// digest of the client address; raw addresses are never stored.
type ScanEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	BusinessID uint      `gorm:"not null;index" json:"business_id"`
	Platform   string    `gorm:"type:varchar(16);not null;index" json:"platform"`
	UserAgent  *string   `json:"user_agent"`
	IPHash     *string   `gorm:"column:ip_hash" json:"ip_hash"`
	Referer    *string   `json:"referer"`
}
