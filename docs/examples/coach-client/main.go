// Courtside Coach Client Example
//
// This is a minimal example of how a coach tool authenticates with an
// access key and reads its own profile and conversations.
//
// Usage:
//   export COURTSIDE_ACCESS_KEY="ck_xxxxxx_..."
//   export COURTSIDE_BASE_URL="http://localhost:8080"  # optional
//   go run main.go

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	Profile struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"profile"`
}

type conversationsResponse struct {
	Conversations []struct {
		ID              string `json:"id"`
		Subject         string `json:"subject"`
		UnreadCount     int    `json:"unread_count"`
		LastMessageText string `json:"last_message_text"`
	} `json:"conversations"`
}

func main() {
	accessKey := os.Getenv("COURTSIDE_ACCESS_KEY")
	if accessKey == "" {
		log.Fatal("COURTSIDE_ACCESS_KEY environment variable is required")
	}

	baseURL := os.Getenv("COURTSIDE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 10 * time.Second}

	token, err := exchangeKey(client, baseURL, accessKey)
	if err != nil {
		log.Fatalf("Token exchange failed: %v", err)
	}
	log.Println("✓ Session established")

	profile, err := fetchProfile(client, baseURL, token)
	if err != nil {
		log.Fatalf("Profile fetch failed: %v", err)
	}
	log.Printf("  Signed in as %s <%s> (%s)", profile.Profile.Name, profile.Profile.Email, profile.Profile.Role)

	conversations, err := fetchConversations(client, baseURL, token)
	if err != nil {
		log.Fatalf("Conversation list failed: %v", err)
	}

	log.Printf("  %d conversation(s)", len(conversations.Conversations))
	for _, c := range conversations.Conversations {
		log.Printf("  - %s (%d unread): %s", c.Subject, c.UnreadCount, c.LastMessageText)
	}
}

// exchangeKey trades the long-lived access key for a short-lived session token.
// Never send the access key on every request; use the token.
func exchangeKey(client *http.Client, baseURL, accessKey string) (string, error) {
	payload, err := json.Marshal(map[string]string{"access_key": accessKey})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(baseURL+"/api/auth/token", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("response missing token")
	}
	return out.Token, nil
}

func fetchProfile(client *http.Client, baseURL, token string) (*profileResponse, error) {
	var out profileResponse
	if err := getJSON(client, baseURL+"/api/users/me", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func fetchConversations(client *http.Client, baseURL, token string) (*conversationsResponse, error) {
	var out conversationsResponse
	if err := getJSON(client, baseURL+"/api/messaging/conversations", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func getJSON(client *http.Client, url, token string, out any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
