package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"minitwit/dto"
	"minitwit/models"
	"minitwit/monitoring"
	"minitwit/repositories"
)

// MessageHandler handles the message-related API endpoints
type MessageHandler struct {
	Messages repositories.MessageRepository
	Users    repositories.UserRepository
	System   *SystemHandler
}

func NewMessageHandler(messages repositories.MessageRepository, users repositories.UserRepository, system *SystemHandler) *MessageHandler {
	return &MessageHandler{Messages: messages, Users: users, System: system}
}

// GetMessages handles GET /msgs
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	h.System.UpdateLatest(r)

	messages, err := h.Messages.GetPublic(limitParam(r, defaultAPILimit))
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch messages")
		apiError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeMessages(w, messages)
}

// MessagesPerUser handles GET and POST /msgs/{username}
func (h *MessageHandler) MessagesPerUser(w http.ResponseWriter, r *http.Request) {
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
		messages, err := h.Messages.GetByAuthor(user.UserID, limitParam(r, defaultAPILimit))
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch user messages")
			apiError(w, http.StatusInternalServerError, "Database error")
			return
		}
		writeMessages(w, messages)
		return
	}

	var requestData struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || strings.TrimSpace(requestData.Content) == "" {
		apiError(w, http.StatusBadRequest, "Invalid or missing content")
		return
	}

	message := models.Message{
		AuthorID: user.UserID,
		Text:     requestData.Content,
		PubDate:  time.Now().Unix(),
	}
	if err := h.Messages.Create(&message); err != nil {
		logrus.WithError(err).Error("Failed to insert message")
		apiError(w, http.StatusInternalServerError, "Database error")
		return
	}

	logrus.WithField("username", username).Info("Message posted")
	monitoring.MessagesPosted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// writeMessages encodes messages in the API response shape. An empty
// result set encodes as [] rather than null.
func writeMessages(w http.ResponseWriter, messages []models.Message) {
	response := make([]dto.MessageDTO, len(messages))
	for i, msg := range messages {
		response[i] = dto.MessageDTO{
			Text:     msg.Text,
			PubDate:  msg.PubDate,
			Username: msg.Author.Username,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
