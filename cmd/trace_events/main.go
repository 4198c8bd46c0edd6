package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/events"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/nats"

	"github.com/joho/godotenv"
)

// Tails the NATS event stream and prints every event the backend emits
// (DOCUMENT_INGESTED after ingestion, CLAIM_REPORTED when a claim is filed).
// Useful for verifying that downstream integrations would see traffic.

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	subscriber, err := nats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer subscriber.Close()

	err = subscriber.Subscribe("events.>", "trace-events", func(ctx context.Context, event events.Event) error {
		payload, _ := json.Marshal(event.Payload())
		log.Printf("📨 %s %s", event.EventType(), string(payload))
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Failed to subscribe: %v", err)
	}

	log.Printf("Listening on events.> at %s (Ctrl+C to stop)", natsURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down")
}
