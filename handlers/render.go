package handlers

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"minitwit/models"
)

// pageData carries everything the layout and page templates can show.
type pageData struct {
	User        *models.User // logged-in user, nil when anonymous
	ProfileUser *models.User
	Messages    []models.Message
	Followed    bool
	Endpoint    string
	Error       string
	FormData    map[string]string
	Flashes     []string
}

var templateFuncs = template.FuncMap{
	"datetimeformat": func(ts int64) string {
		return time.Unix(ts, 0).UTC().Format("2006-01-02 @ 15:04")
	},
	"gravatar": func(email string, size int) string {
		hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
		return fmt.Sprintf("http://www.gravatar.com/avatar/%x?d=identicon&s=%d", hash, size)
	},
}

// render executes the page template inside the layout. The page is
// rendered to a buffer first so a template fault still produces a clean
// 500 instead of a half-written body.
func (h *WebHandler) render(w http.ResponseWriter, page string, status int, data *pageData) {
	ts, err := template.New("").Funcs(templateFuncs).ParseFiles(
		filepath.Join(h.TemplateDir, "layout.html"),
		filepath.Join(h.TemplateDir, page),
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to parse templates")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "layout", data); err != nil {
		logrus.WithError(err).Error("Failed to execute template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
