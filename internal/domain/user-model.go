package domain

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	Name      string    `gorm:"type:varchar(255)" json:"name" bson:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	PhotoURL  string    `gorm:"type:text" json:"photoURL,omitempty" bson:"photo_url"`
	Role      Role      `gorm:"type:varchar(20);not null;default:buyer;index" json:"role" bson:"role"`
	Verified  bool      `gorm:"not null;default:false" json:"verified" bson:"verified"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt" bson:"updated_at"`
}
