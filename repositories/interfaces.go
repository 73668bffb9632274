package repositories

import "minitwit/models"

type UserRepository interface {
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Follow(whoID, whomID uint) error
	Unfollow(whoID, whomID uint) error
	IsFollowing(whoID, whomID uint) (bool, error)
	GetFollowing(whoID uint, limit int) ([]string, error)
}

type MessageRepository interface {
	Create(message *models.Message) error
	GetPublic(limit int) ([]models.Message, error)
	GetByAuthor(authorID uint, limit int) ([]models.Message, error)
	GetTimeline(userID uint, limit int) ([]models.Message, error)
}
