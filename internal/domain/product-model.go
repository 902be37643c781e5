package domain

import "time"

type Product struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	SellerEmail   string  `gorm:"index;not null" json:"sellerEmail" bson:"seller_email"`
	SellerName    string  `json:"sellerName" bson:"seller_name"`
	CategoryID    string  `gorm:"index;not null" json:"categoryId" bson:"category_id"`
	Name          string  `gorm:"not null" json:"name" bson:"name"`
	ImageURL      string  `gorm:"type:text" json:"image" bson:"image_url"`
	Location      string  `json:"location" bson:"location"`
	Condition     string  `gorm:"type:varchar(20)" json:"condition" bson:"condition"`
	OriginalPrice float64 `json:"originalPrice" bson:"original_price"`
	ResalePrice   float64 `gorm:"not null" json:"resalePrice" bson:"resale_price"`
	YearsOfUse    int     `json:"yearsOfUse" bson:"years_of_use"`
	Phone         string  `json:"phone" bson:"phone"`
	Description   string  `gorm:"type:text" json:"description" bson:"description"`

	IsBooked      bool    `gorm:"not null;default:false" json:"isBooked" bson:"is_booked"`
	Advertise     bool    `gorm:"not null;default:false" json:"advertise" bson:"advertise"`
	Reported      bool    `gorm:"not null;default:false" json:"reported" bson:"reported"`
	Sold          bool    `gorm:"not null;default:false" json:"sold" bson:"sold"`
	Paid          bool    `gorm:"not null;default:false" json:"paid" bson:"paid"`
	IsVerified    bool    `gorm:"not null;default:false" json:"isVerified" bson:"is_verified"`
	TransactionID *string `gorm:"type:varchar(255);index" json:"transactionId,omitempty" bson:"transaction_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt" bson:"updated_at"`
}

// ProductPatch is a field-set update; nil fields are left untouched.
type ProductPatch struct {
	IsBooked      *bool
	Advertise     *bool
	Reported      *bool
	Sold          *bool
	Paid          *bool
	IsVerified    *bool
	TransactionID *string
	ImageURL      *string
}

// Fields returns the patch keyed by column name. Both stores use the same
// names for columns and document keys.
func (p ProductPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.IsBooked != nil {
		out["is_booked"] = *p.IsBooked
	}
	if p.Advertise != nil {
		out["advertise"] = *p.Advertise
	}
	if p.Reported != nil {
		out["reported"] = *p.Reported
	}
	if p.Sold != nil {
		out["sold"] = *p.Sold
	}
	if p.Paid != nil {
		out["paid"] = *p.Paid
	}
	if p.IsVerified != nil {
		out["is_verified"] = *p.IsVerified
	}
	if p.TransactionID != nil {
		out["transaction_id"] = *p.TransactionID
	}
	if p.ImageURL != nil {
		out["image_url"] = *p.ImageURL
	}
	return out
}

// Apply writes the patch onto an in-memory product.
func (p ProductPatch) Apply(product *Product) {
	if p.IsBooked != nil {
		product.IsBooked = *p.IsBooked
	}
	if p.Advertise != nil {
		product.Advertise = *p.Advertise
	}
	if p.Reported != nil {
		product.Reported = *p.Reported
	}
	if p.Sold != nil {
		product.Sold = *p.Sold
	}
	if p.Paid != nil {
		product.Paid = *p.Paid
	}
	if p.IsVerified != nil {
		product.IsVerified = *p.IsVerified
	}
	if p.TransactionID != nil {
		txn := *p.TransactionID
		product.TransactionID = &txn
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
}

func Bool(b bool) *bool {
	return &b
}

func String(s string) *string {
	return &s
}
