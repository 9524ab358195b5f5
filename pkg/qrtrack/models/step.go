package models

// Step is one numbered instruction printed on a business poster.
// Position is 1-based and contiguous per business.
type Step struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	BusinessID uint   `gorm:"not null;index" json:"business_id"`
	Position   int    `gorm:"not null" json:"order"`
	Text       string `gorm:"not null" json:"text"`
}
