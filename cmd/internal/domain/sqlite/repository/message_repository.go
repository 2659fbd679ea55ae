package repository

import (
	"errors"
	"livechat/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *DefaultMessageRepository {
	return &DefaultMessageRepository{db: db}
}

func (m *DefaultMessageRepository) Save(msg *entity.Message) error {
	return m.db.Create(msg).Error
}

func (m *DefaultMessageRepository) FindByID(id int64) (*entity.Message, error) {
	var msg entity.Message
	err := m.db.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead flips is_read exactly once; a message that is already read
// keeps its original read_at (first acknowledgment wins).
func (m *DefaultMessageRepository) MarkRead(id int64, readAt int64) error {
	return m.db.Model(&entity.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

// FindConversation returns the latest messages exchanged between two users,
// oldest first.
func (m *DefaultMessageRepository) FindConversation(userA, userB string, limit int) ([]*entity.Message, error) {
	var msgs []*entity.Message
	err := m.db.
		Where("(sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?)",
			userA, userB, userB, userA).
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (m *DefaultMessageRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := m.db.Model(&entity.Message{}).
		Where("recipient = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
