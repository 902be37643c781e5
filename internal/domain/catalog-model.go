package domain

import "time"

type Category struct {
	ID    string `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	Name  string `gorm:"type:varchar(100);not null" json:"name" bson:"name"`
	Image string `gorm:"type:text" json:"image" bson:"image"`
}

type Blog struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	Title     string    `gorm:"not null" json:"title" bson:"title"`
	Body      string    `gorm:"type:text" json:"body" bson:"body"`
	Image     string    `gorm:"type:text" json:"image" bson:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt" bson:"created_at"`
}
