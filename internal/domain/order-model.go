package domain

import "time"

// Order books a single product. ProductID is unique: a second booking of the
// same product overwrites the first.
type Order struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	ProductID     string    `gorm:"uniqueIndex;not null;type:varchar(36)" json:"productId" bson:"product_id"`
	ProductName   string    `json:"productName" bson:"product_name"`
	Email         string    `gorm:"index" json:"email" bson:"email"`
	BuyerName     string    `json:"name" bson:"buyer_name"`
	Phone         string    `json:"phone" bson:"phone"`
	Location      string    `json:"location" bson:"location"`
	Price         float64   `json:"price" bson:"price"`
	Paid          bool      `gorm:"not null;default:false" json:"paid" bson:"paid"`
	TransactionID *string   `gorm:"type:varchar(255)" json:"transactionId,omitempty" bson:"transaction_id,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt" bson:"updated_at"`
}
