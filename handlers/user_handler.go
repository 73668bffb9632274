package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"minitwit/dto"
	"minitwit/models"
	"minitwit/monitoring"
	"minitwit/repositories"
)

// UserHandler handles the user-facing API endpoints: registration and
// follower management.
type UserHandler struct {
	Users  repositories.UserRepository
	System *SystemHandler
}

func NewUserHandler(users repositories.UserRepository, system *SystemHandler) *UserHandler {
	return &UserHandler{Users: users, System: system}
}

// RegisterHandler handles POST /register
func (h *UserHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	h.System.UpdateLatest(r)

	var requestData struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"pwd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		apiError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	errMsg := ""
	switch {
	case requestData.Username == "":
		errMsg = "You have to enter a username"
	case requestData.Email == "" || !strings.Contains(requestData.Email, "@"):
		errMsg = "You have to enter a valid email address"
	case requestData.Password == "":
		errMsg = "You have to enter a password"
	}
	if errMsg == "" {
		_, err := h.Users.FindByUsername(requestData.Username)
		switch {
		case err == nil:
			errMsg = "The username is already taken"
		case !errors.Is(err, gorm.ErrRecordNotFound):
			logrus.WithError(err).Error("Failed to look up username")
			apiError(w, http.StatusInternalServerError, "Database error")
			return
		}
	}
	if errMsg != "" {
		logrus.WithField("username", requestData.Username).Warn(errMsg)
		apiError(w, http.StatusBadRequest, errMsg)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(requestData.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	user := models.User{
		Username: requestData.Username,
		Email:    requestData.Email,
		PwHash:   string(hashed),
	}
	if err := h.Users.Create(&user); err != nil {
		logrus.WithError(err).Error("Failed to insert user")
		apiError(w, http.StatusInternalServerError, "Database error")
		return
	}

	logrus.WithField("username", user.Username).Info("User registered")
	monitoring.RegisterSuccess.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// FollowHandler handles GET and POST /fllws/{username}
func (h *UserHandler) FollowHandler(w http.ResponseWriter, r *http.Request) {
	h.System.UpdateLatest(r)

	username := mux.Vars(r)["username"]
	user, err := h.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apiError(w, http.StatusNotFound, "User not found")
		} else {
			apiError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if r.Method == http.MethodGet {
		follows, err := h.Users.GetFollowing(user.UserID, limitParam(r, defaultAPILimit))
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch follows")
			apiError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if follows == nil {
			follows = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dto.FollowsDTO{Follows: follows})
		return
	}

	var requestData struct {
		Follow   string `json:"follow"`
		Unfollow string `json:"unfollow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		apiError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// An unresolvable target is ignored, the request still succeeds.
	if requestData.Follow != "" {
		if target, err := h.Users.FindByUsername(requestData.Follow); err == nil {
			if err := h.Users.Follow(user.UserID, target.UserID); err != nil {
				logrus.WithError(err).Error("Failed to insert follow edge")
				apiError(w, http.StatusInternalServerError, "Database error")
				return
			}
			monitoring.Follows.Inc()
		}
	} else if requestData.Unfollow != "" {
		if target, err := h.Users.FindByUsername(requestData.Unfollow); err == nil {
			if err := h.Users.Unfollow(user.UserID, target.UserID); err != nil {
				logrus.WithError(err).Error("Failed to delete follow edge")
				apiError(w, http.StatusInternalServerError, "Database error")
				return
			}
			monitoring.Unfollows.Inc()
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
