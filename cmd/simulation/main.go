package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/v1"

// Simplified DTOs for the script
type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type ChatResponse struct {
	Answer     string   `json:"answer"`
	QueryType  string   `json:"query_type"`
	FormatUsed string   `json:"format_used"`
	References []string `json:"references"`
	SessionID  string   `json:"session_id"`
}

func main() {
	color.Cyan("=== Claims Assistant Simulation Client ===")

	// One session across the whole script so context restoration and the
	// policy gate can be observed end to end.
	sessionID := ""

	testCases := []string{
		"hello",
		"I had a car accident yesterday and need to file a claim",
		"My policy number is SAC-2024-789456",
		"What is my deductible?",
		"Compare SAC-2024-789456 with ESC-2024-334567",
	}

	for _, text := range testCases {
		color.Yellow("\nUSER: %s", text)

		start := time.Now()
		res, err := sendChat(sessionID, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		sessionID = res.SessionID
		color.Green("AI (%v) [%s]: %s", elapsed, res.QueryType, res.Answer)
		if len(res.References) > 0 {
			color.White("References: %v", res.References)
		}

		// Small delay to allow async logs to flush on server side (optional)
		time.Sleep(1 * time.Second)
	}
}

func sendChat(sessionID, text string) (*ChatResponse, error) {
	payload := ChatRequest{
		Query:     text,
		SessionID: sessionID,
	}
	jsonBytes, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", baseURL+"/chat", bytes.NewBuffer(jsonBytes))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
