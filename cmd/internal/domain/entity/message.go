package entity

// Message is one persisted chat message between two users.
//
// ReadAt stays nil until the recipient acknowledges the message; it is
// written exactly once (first acknowledgment wins).
type Message struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	Sender    string `gorm:"not null;index"`
	Recipient string `gorm:"not null;index"`
	Content   string `gorm:"not null"`
	IsRead    bool   `gorm:"not null;default:false"`
	ReadAt    *int64
	CreatedAt int64 `gorm:"not null;autoCreateTime:false"`
}
