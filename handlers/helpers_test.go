package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"minitwit/handlers"
	"minitwit/models"
	"minitwit/repositories"
	"minitwit/routes"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follower{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := newTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	system := handlers.NewSystemHandler()
	userHandler := handlers.NewUserHandler(userRepo, system)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, system)

	server := httptest.NewServer(routes.SetupAPIRoutes(userHandler, messageHandler, system))
	t.Cleanup(server.Close)
	return server
}

func newWebServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := newTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	store := sessions.NewCookieStore([]byte("test key"))
	webHandler := handlers.NewWebHandler(userRepo, messageRepo, store, "../templates")

	server := httptest.NewServer(routes.SetupWebRoutes(webHandler))
	t.Cleanup(server.Close)
	return server
}

func assertContains(t *testing.T, resp *http.Response, expected string) {
	t.Helper()
	body := readBody(t, resp)
	if !strings.Contains(body, expected) {
		t.Errorf("Expected response to contain %q but got %q", expected, body)
	}
}

func assertNotContains(t *testing.T, resp *http.Response, unexpected string) {
	t.Helper()
	body := readBody(t, resp)
	if strings.Contains(body, unexpected) {
		t.Errorf("Expected response to not contain %q but got %q", unexpected, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(bodyBytes)
}
