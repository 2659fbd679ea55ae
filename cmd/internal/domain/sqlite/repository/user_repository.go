package repository

import (
	"errors"
	"livechat/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(id string) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *DefaultUserRepository) FindOnline() ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Where("is_online = ?", true).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// SavePresence upserts the user row keyed by the durable id. The first
// authenticate a user ever sends creates their record.
func (u *DefaultUserRepository) SavePresence(user *entity.User) error {
	return u.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "is_online", "last_active"}),
	}).Create(user).Error
}

func (u *DefaultUserRepository) UpdatePresence(id string, online bool, lastActive int64) error {
	return u.db.Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_online":   online,
			"last_active": lastActive,
		}).Error
}

// MarkAllOffline reconciles durable presence after a restart: the registry
// boots empty, so any lingering is_online flag is stale.
func (u *DefaultUserRepository) MarkAllOffline() error {
	return u.db.Model(&entity.User{}).
		Where("is_online = ?", true).
		Update("is_online", false).Error
}
