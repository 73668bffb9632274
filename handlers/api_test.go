package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func apiRegister(t *testing.T, baseURL, username, email, pwd, query string) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"pwd":      pwd,
	})
	resp, err := http.Post(baseURL+"/register"+query, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	return resp
}

func apiPostJSON(t *testing.T, url string, payload map[string]string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestLatestCounter(t *testing.T) {
	server := newAPIServer(t)

	resp, err := http.Get(server.URL + "/latest")
	if err != nil {
		t.Fatalf("GET /latest failed: %v", err)
	}
	var latest struct {
		Latest int64 `json:"latest"`
	}
	decodeJSON(t, resp, &latest)
	if latest.Latest != -1 {
		t.Errorf("Expected initial latest -1, got %d", latest.Latest)
	}

	resp = apiRegister(t, server.URL, "alice", "alice@example.com", "pw", "?latest=1337")
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/latest")
	if err != nil {
		t.Fatalf("GET /latest failed: %v", err)
	}
	decodeJSON(t, resp, &latest)
	if latest.Latest != 1337 {
		t.Errorf("Expected latest 1337, got %d", latest.Latest)
	}
}

func TestAPIRegisterValidation(t *testing.T) {
	server := newAPIServer(t)

	resp := apiRegister(t, server.URL, "alice", "alice@example.com", "pw1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 on register, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = apiRegister(t, server.URL, "alice", "alice@example.com", "pw1", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 on duplicate register, got %d", resp.StatusCode)
	}
	assertContains(t, resp, "The username is already taken")

	resp = apiRegister(t, server.URL, "", "x@example.com", "pw", "")
	assertContains(t, resp, "You have to enter a username")

	resp = apiRegister(t, server.URL, "meh", "broken", "pw", "")
	assertContains(t, resp, "You have to enter a valid email address")

	resp = apiRegister(t, server.URL, "meh", "meh@example.com", "", "")
	assertContains(t, resp, "You have to enter a password")
}

func TestUserMessagesNotFoundVsEmpty(t *testing.T) {
	server := newAPIServer(t)

	resp, err := http.Get(server.URL + "/msgs/nobody")
	if err != nil {
		t.Fatalf("GET /msgs/nobody failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown user, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	apiRegister(t, server.URL, "quiet", "quiet@example.com", "pw", "").Body.Close()

	resp, err = http.Get(server.URL + "/msgs/quiet")
	if err != nil {
		t.Fatalf("GET /msgs/quiet failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for existing user, got %d", resp.StatusCode)
	}
	var messages []map[string]interface{}
	decodeJSON(t, resp, &messages)
	if messages == nil || len(messages) != 0 {
		t.Errorf("Expected empty list for user without messages, got %v", messages)
	}
}

func TestPostMessageValidation(t *testing.T) {
	server := newAPIServer(t)
	apiRegister(t, server.URL, "alice", "alice@example.com", "pw", "").Body.Close()

	resp := apiPostJSON(t, server.URL+"/msgs/alice", map[string]string{"content": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank content, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = apiPostJSON(t, server.URL+"/msgs/nobody", map[string]string{"content": "hi"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown author, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestFollowUnknownTargetStillSucceeds(t *testing.T) {
	server := newAPIServer(t)
	apiRegister(t, server.URL, "bob", "bob@example.com", "pw", "").Body.Close()

	resp := apiPostJSON(t, server.URL+"/fllws/bob", map[string]string{"follow": "ghost"})
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 for unresolvable follow target, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/fllws/bob")
	if err != nil {
		t.Fatalf("GET /fllws/bob failed: %v", err)
	}
	var follows struct {
		Follows []string `json:"follows"`
	}
	decodeJSON(t, resp, &follows)
	if len(follows.Follows) != 0 {
		t.Errorf("Expected no follows, got %v", follows.Follows)
	}
}

func TestRegisterFollowPostScenario(t *testing.T) {
	server := newAPIServer(t)

	apiRegister(t, server.URL, "alice", "alice@x.com", "pw1", "").Body.Close()
	apiRegister(t, server.URL, "bob", "bob@x.com", "pw2", "").Body.Close()

	resp := apiPostJSON(t, server.URL+"/fllws/bob", map[string]string{"follow": "alice"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 on follow, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = apiPostJSON(t, server.URL+"/msgs/alice", map[string]string{"content": "hello"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 on post, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/msgs/alice")
	if err != nil {
		t.Fatalf("GET /msgs/alice failed: %v", err)
	}
	var messages []struct {
		Content string `json:"content"`
		PubDate int64  `json:"pub_date"`
		User    string `json:"user"`
	}
	decodeJSON(t, resp, &messages)
	if len(messages) != 1 || messages[0].Content != "hello" || messages[0].User != "alice" {
		t.Errorf("Expected one message hello by alice, got %v", messages)
	}

	resp, err = http.Get(server.URL + "/fllws/bob")
	if err != nil {
		t.Fatalf("GET /fllws/bob failed: %v", err)
	}
	var follows struct {
		Follows []string `json:"follows"`
	}
	decodeJSON(t, resp, &follows)
	if len(follows.Follows) != 1 || follows.Follows[0] != "alice" {
		t.Errorf(`Expected {"follows": ["alice"]}, got %v`, follows.Follows)
	}
}

func TestPublicMessagesLimit(t *testing.T) {
	server := newAPIServer(t)
	apiRegister(t, server.URL, "alice", "alice@example.com", "pw", "").Body.Close()

	for i := 0; i < 5; i++ {
		resp := apiPostJSON(t, server.URL+"/msgs/alice", map[string]string{"content": fmt.Sprintf("msg %d", i)})
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/msgs?no=3")
	if err != nil {
		t.Fatalf("GET /msgs failed: %v", err)
	}
	var messages []map[string]interface{}
	decodeJSON(t, resp, &messages)
	if len(messages) != 3 {
		t.Errorf("Expected 3 messages with no=3, got %d", len(messages))
	}
}
