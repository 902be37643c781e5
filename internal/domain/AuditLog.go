package domain

import "time"

const (
	AuditVerifySeller  = "seller.verify"
	AuditDeleteUser    = "user.delete"
	AuditDeleteProduct = "product.delete_reported"
	AuditUnreport      = "product.unreport"
	AuditDeleteOrder   = "order.delete"
	AuditRevokeBooking = "order.revoke"
)

type AuditLog struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id" bson:"_id"`
	ActorEmail string    `gorm:"not null;index" json:"actor_email" bson:"actor_email"`
	Action     string    `gorm:"type:varchar(100);not null" json:"action" bson:"action"`
	Entity     string    `gorm:"type:varchar(100);not null" json:"entity" bson:"entity"`
	EntityID   string    `gorm:"not null;index" json:"entity_id" bson:"entity_id"`
	Note       *string   `gorm:"type:text" json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at" bson:"created_at"`
}
