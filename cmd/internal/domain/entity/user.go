package entity

// User is the general basic structure of all users across the platform.
// ID is the durable identifier carried by the auth token's "sub" claim.
//
// IsOnline and LastActive are written only by the presence coordinator.
// They are advisory for REST reads; the in-memory connection registry is
// the authoritative view for routing.
type User struct {
	ID         string `gorm:"primaryKey;autoIncrement:false"`
	Username   string `gorm:"not null"`
	IsOnline   bool   `gorm:"not null;default:false"`
	LastActive int64  `gorm:"not null;default:0"`
	CreatedAt  int64  `gorm:"not null"`
}
