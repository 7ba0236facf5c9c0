package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/logger"
	"quiz_webapp/internal/service"
	"quiz_webapp/internal/ws"

	"github.com/gorilla/websocket"
)

// flow_smoke drives one creation flow against a running server: it opens
// a flow, watches it over the websocket, submits and waits for navigation.
func main() {
	topic := flag.String("topic", "Solar system", "quiz topic")
	amount := flag.Int("amount", 3, "number of questions")
	quizType := flag.String("type", "mcq", "mcq or open_ended")
	userID := flag.Int64("user", 1, "user id to sign the token for")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"), false)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "127.0.0.1:" + port

	token := os.Getenv("TOKEN")
	if token == "" {
		service.InitJWT()
		var err error
		token, err = service.GenerateJWT(&domain.User{ID: *userID, Name: "smoke", Role: domain.RoleUser})
		if err != nil {
			logger.Fatal("gen token", "error", err)
		}
	}

	var opened struct {
		FlowID string `json:"flow_id"`
	}
	if code := call(http.MethodPost, "http://"+base+"/api/v1/flows", token, map[string]any{"topic": *topic}, &opened); code != http.StatusCreated {
		logger.Fatal("open flow failed", "status", code)
	}
	logger.Info("flow opened", "flow_id", opened.FlowID)

	wsURL := fmt.Sprintf("ws://%s/api/v1/flows/%s/ws?token=%s", base, opened.FlowID, token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	// wait for the initial state so no event of the submission is missed
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first ws.Event
	if err := conn.ReadJSON(&first); err != nil {
		logger.Fatal("read initial state", "error", err)
	}

	form := map[string]any{"topic": *topic, "amount": *amount, "type": *quizType}
	if code := call(http.MethodPost, "http://"+base+"/api/v1/flows/"+opened.FlowID+"/submit", token, form, nil); code != http.StatusAccepted {
		logger.Fatal("submit failed", "status", code)
	}

	deadline := time.Now().Add(2 * time.Minute)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var ev ws.Event
		if err := conn.ReadJSON(&ev); err != nil {
			logger.Fatal("read", "error", err)
		}
		logger.Info("event", "type", ev.Type, "message", ev.Message, "path", ev.Path)

		if ev.Type == ws.MsgNavigate {
			logger.Info("smoke test finished", "destination", ev.Path)
			return
		}
		if ev.Type == ws.MsgToastError {
			logger.Fatal("creation failed", "message", ev.Message)
		}
	}
	logger.Fatal("no navigation before deadline")
}

func call(method, url, token string, body any, out any) int {
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(method, url, bytes.NewReader(b))
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("request failed", "url", url, "error", err)
	}
	defer resp.Body.Close()

	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}
