// Package main provides a development tool that tails the live blog feed
// over WebSocket and prints each snapshot as it arrives.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8480", "API server host")
	email := flag.String("email", "", "Login email (empty for an anonymous, published-only feed)")
	password := flag.String("password", "", "Login password")
	flag.Parse()

	token := ""
	if *email != "" {
		t, err := login(*host, *email, *password)
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
		token = t
		log.Printf("Logged in as %s", *email)
	}

	u := url.URL{Scheme: "ws", Host: *host, Path: "/api/ws/feed"}
	if token != "" {
		u.RawQuery = url.Values{"token": {token}}.Encode()
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()
	log.Printf("Watching %s", u.Path)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Read failed: %v", err)
				return
			}
			printSnapshot(message)
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("Unsubscribing...")
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"unsubscribe"}`))
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}
}

func login(host, email, password string) (string, error) {
	loginURL := fmt.Sprintf("http://%s/api/auth/login", host)
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := http.Post(loginURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

func printSnapshot(message []byte) {
	var envelope struct {
		Type    string `json:"type"`
		Payload struct {
			GeneratedAt time.Time `json:"generated_at"`
			Posts       []struct {
				Slug        string `json:"slug"`
				Title       string `json:"title"`
				IsPublished bool   `json:"is_published"`
			} `json:"posts"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		log.Printf("Unparseable frame: %s", message)
		return
	}

	log.Printf("snapshot at %s (%d posts)",
		envelope.Payload.GeneratedAt.Format(time.RFC3339), len(envelope.Payload.Posts))
	for _, p := range envelope.Payload.Posts {
		state := "published"
		if !p.IsPublished {
			state = "draft"
		}
		log.Printf("  [%s] %s (%s)", state, p.Title, p.Slug)
	}
}
