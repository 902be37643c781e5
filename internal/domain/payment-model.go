package domain

import "time"

// Payment is written once per transaction id. Settled flips to true after the
// product and order have been moved to their paid state.
type Payment struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	ProductID     string    `gorm:"index;not null;type:varchar(36)" json:"productId" bson:"product_id"`
	Email         string    `gorm:"index;not null" json:"email" bson:"email"`
	TransactionID string    `gorm:"uniqueIndex;not null;type:varchar(255)" json:"transactionId" bson:"transaction_id"`
	Amount        float64   `json:"price" bson:"amount"`
	Currency      string    `gorm:"type:varchar(8)" json:"currency" bson:"currency"`
	Settled       bool      `gorm:"not null;default:false" json:"settled" bson:"settled"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt" bson:"updated_at"`
}
