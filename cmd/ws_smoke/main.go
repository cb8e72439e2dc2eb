package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Smoke test for the matchmaking flow against a running server:
// registers two players, opens both push channels, queues both for a match
// and plays one full round over the HTTP API. Expects APP_PORT (default 8080).
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://127.0.0.1:%s/api/v1", port)

	tokenA, idA := auth(base, "smokeA")
	tokenB, _ := auth(base, "smokeB")
	log.Printf("authenticated: A id=%d", idA)

	dialer := websocket.DefaultDialer

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	connA, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, tokenA), nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := dialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, tokenB), nil)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	// A queues, B pairs with A
	resA := post(base+"/match", tokenA, nil)
	log.Printf("A match: %s", resA)

	resB := post(base+"/match", tokenB, nil)
	log.Printf("B match: %s", resB)

	var matched struct {
		Matched bool   `json:"matched"`
		GameID  string `json:"game_id"`
	}
	if err := json.Unmarshal(resB, &matched); err != nil || !matched.Matched {
		log.Fatalf("B was not matched: %s", resB)
	}

	// A should get a match_found push
	readPush(connA, "A")

	move := func(token, move string) {
		body := post(fmt.Sprintf("%s/game/%s/move", base, matched.GameID), token, map[string]string{"move": move})
		log.Printf("move %s: %s", move, body)
	}
	move(tokenA, "rock")
	move(tokenB, "scissors")

	// both sides get a game_result push
	readPush(connA, "A")
	readPush(connB, "B")

	log.Println("smoke test finished")
}

func auth(base, username string) (string, int64) {
	body := post(base+"/auth", "", map[string]string{"username": username})
	var res struct {
		Token  string `json:"token"`
		Player struct {
			ID int64 `json:"id"`
		} `json:"player"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.Token == "" {
		log.Fatalf("auth %s failed: %s", username, body)
	}
	return res.Token, res.Player.ID
}

func post(url, token string, payload any) []byte {
	var buf bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&buf).Encode(payload)
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	if resp.StatusCode >= 400 {
		log.Fatalf("post %s: status %d body %s", url, resp.StatusCode, out.String())
	}
	return out.Bytes()
}

func readPush(conn *websocket.Conn, name string) {
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		log.Printf("%s read error: %v", name, err)
		return
	}
	log.Printf("%s got: %s", name, string(msg))
}
