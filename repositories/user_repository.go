package repositories

import (
	"gorm.io/gorm"

	"minitwit/models"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create a new user
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Follow inserts the edge who -> whom. Following someone twice is a
// no-op, the edge is unique per ordered pair.
func (r *userRepository) Follow(whoID, whomID uint) error {
	edge := models.Follower{WhoID: whoID, WhomID: whomID}
	return r.db.Where("who_id = ? AND whom_id = ?", whoID, whomID).
		FirstOrCreate(&edge).Error
}

// Unfollow removes the edge who -> whom
func (r *userRepository) Unfollow(whoID, whomID uint) error {
	return r.db.Where("who_id = ? AND whom_id = ?", whoID, whomID).
		Delete(&models.Follower{}).Error
}

// IsFollowing reports whether the edge who -> whom exists
func (r *userRepository) IsFollowing(whoID, whomID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follower{}).
		Where("who_id = ? AND whom_id = ?", whoID, whomID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowing lists the usernames the given user follows
func (r *userRepository) GetFollowing(whoID uint, limit int) ([]string, error) {
	var usernames []string
	err := r.db.Table("\"user\"").
		Select("\"user\".username").
		Joins("INNER JOIN follower ON follower.whom_id = \"user\".user_id").
		Where("follower.who_id = ?", whoID).
		Limit(limit).
		Pluck("username", &usernames).Error
	return usernames, err
}
