package service

import (
	"errors"

	"notes-api/cache"
	"notes-api/db"
	"notes-api/logger"
	"notes-api/models"
)

// UserService lists users for administrators. The admin gate lives at the
// route.
type UserService struct{}

// ListAllUsers returns every user's public summary, read through the cache.
func (s *UserService) ListAllUsers() ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	if err := cache.GetJSON(cache.KeyUsersAll, &summaries); err == nil {
		return summaries, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warningf("read cache %s: %v", cache.KeyUsersAll, err)
	}

	var users []models.User
	if err := db.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	summaries = make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, models.UserSummary{ID: u.ID, Email: u.Email, Role: u.Role})
	}

	if len(summaries) > 0 {
		if err := cache.SetJSON(cache.KeyUsersAll, summaries); err != nil {
			logger.Warningf("write cache %s: %v", cache.KeyUsersAll, err)
		}
	}
	return summaries, nil
}
