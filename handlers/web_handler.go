package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"minitwit/models"
	"minitwit/monitoring"
	"minitwit/repositories"
)

// PerPage is the number of messages shown on every timeline page.
const PerPage = 30

const sessionName = "minitwit-session"

// WebHandler serves the server-rendered pages. Session state comes in
// through the injected store, the cookie only ever carries user_id.
type WebHandler struct {
	Users       repositories.UserRepository
	Messages    repositories.MessageRepository
	Store       sessions.Store
	TemplateDir string
}

func NewWebHandler(users repositories.UserRepository, messages repositories.MessageRepository, store sessions.Store, templateDir string) *WebHandler {
	return &WebHandler{
		Users:       users,
		Messages:    messages,
		Store:       store,
		TemplateDir: templateDir,
	}
}

func (h *WebHandler) session(r *http.Request) *sessions.Session {
	// A decode error just means a fresh session.
	s, _ := h.Store.Get(r, sessionName)
	return s
}

// currentUser resolves the session's user_id to a user, nil when the
// viewer is anonymous or the session is stale.
func (h *WebHandler) currentUser(r *http.Request) *models.User {
	s := h.session(r)
	raw, ok := s.Values["user_id"]
	if !ok {
		return nil
	}
	id, ok := raw.(uint)
	if !ok {
		return nil
	}
	user, err := h.Users.FindByID(id)
	if err != nil {
		return nil
	}
	return user
}

// flashes drains the session's flash messages and persists the session
// so each message is shown exactly once.
func (h *WebHandler) flashes(w http.ResponseWriter, r *http.Request, s *sessions.Session) []string {
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		logrus.WithError(err).Warn("Failed to save session")
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (h *WebHandler) serverError(w http.ResponseWriter, err error, what string) {
	logrus.WithError(err).Error(what)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// Timeline handles GET /
func (h *WebHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		http.Redirect(w, r, "/public", http.StatusSeeOther)
		return
	}

	messages, err := h.Messages.GetTimeline(user.UserID, PerPage)
	if err != nil {
		h.serverError(w, err, "Failed to fetch timeline")
		return
	}

	h.render(w, "timeline.html", http.StatusOK, &pageData{
		User:     user,
		Messages: messages,
		Endpoint: "timeline",
		Flashes:  h.flashes(w, r, h.session(r)),
	})
}

// PublicTimeline handles GET /public
func (h *WebHandler) PublicTimeline(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Messages.GetPublic(PerPage)
	if err != nil {
		h.serverError(w, err, "Failed to fetch public timeline")
		return
	}

	h.render(w, "timeline.html", http.StatusOK, &pageData{
		User:     h.currentUser(r),
		Messages: messages,
		Endpoint: "public_timeline",
		Flashes:  h.flashes(w, r, h.session(r)),
	})
}

// UserTimeline handles GET /{username}
func (h *WebHandler) UserTimeline(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	profile, err := h.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			h.serverError(w, err, "Failed to look up profile user")
		}
		return
	}

	messages, err := h.Messages.GetByAuthor(profile.UserID, PerPage)
	if err != nil {
		h.serverError(w, err, "Failed to fetch user messages")
		return
	}

	user := h.currentUser(r)
	followed := false
	if user != nil {
		followed, err = h.Users.IsFollowing(user.UserID, profile.UserID)
		if err != nil {
			h.serverError(w, err, "Failed to check follow status")
			return
		}
	}

	h.render(w, "timeline.html", http.StatusOK, &pageData{
		User:        user,
		ProfileUser: profile,
		Messages:    messages,
		Followed:    followed,
		Endpoint:    "user_timeline",
		Flashes:     h.flashes(w, r, h.session(r)),
	})
}

// AddMessage handles POST /add_message. A whitespace-only text inserts
// nothing, the request still redirects home.
func (h *WebHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		http.Error(w, "Log in to post", http.StatusUnauthorized)
		return
	}

	if text := strings.TrimSpace(r.FormValue("text")); text != "" {
		message := models.Message{
			AuthorID: user.UserID,
			Text:     text,
			PubDate:  time.Now().Unix(),
		}
		if err := h.Messages.Create(&message); err != nil {
			h.serverError(w, err, "Failed to insert message")
			return
		}
		monitoring.MessagesPosted.Inc()

		s := h.session(r)
		s.AddFlash("Your message was recorded")
		if err := s.Save(r, w); err != nil {
			logrus.WithError(err).Warn("Failed to save session")
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Login handles GET and POST /login
func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "login.html", http.StatusOK, &pageData{
			Flashes: h.flashes(w, r, h.session(r)),
		})
		return
	}

	username := r.FormValue("username")
	errMsg := ""
	user, err := h.Users.FindByUsername(username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		errMsg = "Invalid username"
		monitoring.LoginFailure.WithLabelValues("unknown_username").Inc()
	case err != nil:
		h.serverError(w, err, "Failed to look up user")
		return
	case bcrypt.CompareHashAndPassword([]byte(user.PwHash), []byte(r.FormValue("password"))) != nil:
		errMsg = "Invalid password"
		monitoring.LoginFailure.WithLabelValues("wrong_password").Inc()
	default:
		s := h.session(r)
		s.Values["user_id"] = user.UserID
		s.AddFlash("You were logged in")
		if err := s.Save(r, w); err != nil {
			logrus.WithError(err).Warn("Failed to save session")
		}
		logrus.WithField("username", username).Info("User logged in")
		monitoring.LoginSuccess.Inc()
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	logrus.WithField("username", username).Warn(errMsg)
	h.render(w, "login.html", http.StatusBadRequest, &pageData{
		Error:    errMsg,
		FormData: map[string]string{"username": username},
	})
}

// Register handles GET and POST /register
func (h *WebHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, "register.html", http.StatusOK, &pageData{
			Flashes: h.flashes(w, r, h.session(r)),
		})
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	errMsg := ""
	switch {
	case username == "":
		errMsg = "You have to enter a username"
	case email == "" || !strings.Contains(email, "@"):
		errMsg = "You have to enter a valid email address"
	case password == "":
		errMsg = "You have to enter a password"
	case password != r.FormValue("password2"):
		errMsg = "The two passwords do not match"
	}
	if errMsg == "" {
		_, err := h.Users.FindByUsername(username)
		switch {
		case err == nil:
			errMsg = "The username is already taken"
		case !errors.Is(err, gorm.ErrRecordNotFound):
			h.serverError(w, err, "Failed to look up username")
			return
		}
	}
	if errMsg != "" {
		logrus.WithField("username", username).Warn(errMsg)
		h.render(w, "register.html", http.StatusBadRequest, &pageData{
			Error:    errMsg,
			FormData: map[string]string{"username": username, "email": email},
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.serverError(w, err, "Failed to hash password")
		return
	}
	user := models.User{Username: username, Email: email, PwHash: string(hashed)}
	if err := h.Users.Create(&user); err != nil {
		h.serverError(w, err, "Failed to insert user")
		return
	}

	logrus.WithField("username", username).Info("User registered")
	monitoring.RegisterSuccess.Inc()

	s := h.session(r)
	s.AddFlash("You were successfully registered and can login now")
	if err := s.Save(r, w); err != nil {
		logrus.WithError(err).Warn("Failed to save session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// FollowUser handles GET /{username}/follow
func (h *WebHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		http.Error(w, "Please log in first", http.StatusUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	whom, err := h.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			h.serverError(w, err, "Failed to look up user")
		}
		return
	}

	if err := h.Users.Follow(user.UserID, whom.UserID); err != nil {
		h.serverError(w, err, "Failed to insert follow edge")
		return
	}
	monitoring.Follows.Inc()

	s := h.session(r)
	s.AddFlash(fmt.Sprintf("You are now following %s", username))
	if err := s.Save(r, w); err != nil {
		logrus.WithError(err).Warn("Failed to save session")
	}
	http.Redirect(w, r, "/"+username, http.StatusSeeOther)
}

// UnfollowUser handles GET /{username}/unfollow
func (h *WebHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(r)
	if user == nil {
		http.Error(w, "Please log in first", http.StatusUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	whom, err := h.Users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
		} else {
			h.serverError(w, err, "Failed to look up user")
		}
		return
	}

	if err := h.Users.Unfollow(user.UserID, whom.UserID); err != nil {
		h.serverError(w, err, "Failed to delete follow edge")
		return
	}
	monitoring.Unfollows.Inc()

	s := h.session(r)
	s.AddFlash(fmt.Sprintf("You are no longer following %s", username))
	if err := s.Save(r, w); err != nil {
		logrus.WithError(err).Warn("Failed to save session")
	}
	http.Redirect(w, r, "/"+username, http.StatusSeeOther)
}

// Logout handles GET /logout. Only the user identifier is cleared, the
// session itself survives so the goodbye flash can render.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	delete(s.Values, "user_id")
	s.AddFlash("You were logged out")
	if err := s.Save(r, w); err != nil {
		logrus.WithError(err).Warn("Failed to save session")
	}
	http.Redirect(w, r, "/public", http.StatusSeeOther)
}
