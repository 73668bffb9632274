package repositories

import (
	"gorm.io/gorm"

	"minitwit/models"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetPublic returns the newest unflagged messages across all users.
func (r *messageRepository) GetPublic(limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Author").
		Where("flagged = ?", 0).
		Order("pub_date DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// GetByAuthor returns the newest unflagged messages written by one user.
func (r *messageRepository) GetByAuthor(authorID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Author").
		Where("flagged = ? AND author_id = ?", 0, authorID).
		Order("pub_date DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// GetTimeline returns the newest unflagged messages written by the user
// or by anyone the user follows.
func (r *messageRepository) GetTimeline(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Author").
		Where("flagged = ? AND (author_id = ? OR author_id IN (SELECT whom_id FROM follower WHERE who_id = ?))",
			0, userID, userID).
		Order("pub_date DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
