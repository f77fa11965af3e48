// SPDX-License-Identifier: Apache-2.0

// Command watch is an event detail view for the terminal: it loads an event
// from the API, then keeps the displayed copy fresh from the broadcast bus
// until interrupted.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/adiadia/meetfit/internal/config"
	"github.com/adiadia/meetfit/internal/domain"
	"github.com/adiadia/meetfit/internal/events"
	"github.com/adiadia/meetfit/internal/logging"
	"github.com/adiadia/meetfit/internal/view"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.Env, "watch")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: watch <event-id>")
		os.Exit(2)
	}

	eventID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid event id %q\n", os.Args[1])
		os.Exit(2)
	}

	if cfg.NATSURL == "" {
		logger.Error("NATS_URL must be set to watch event updates")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	apiURL := apiBaseURL()

	initial, err := fetchEvent(ctx, apiURL, eventID)
	if err != nil {
		logger.Error("load event failed", "event_id", eventID, "error", err)
		os.Exit(1)
	}

	sub, err := events.NewNATSSubscriber(cfg.NATSURL)
	if err != nil {
		logger.Error("broadcast bus connect failed", "url", cfg.NATSURL, "error", err)
		os.Exit(1)
	}
	defer sub.Close()

	binder, err := view.NewEventDetail(initial, sub, logger)
	if err != nil {
		logger.Error("subscribe failed", "error", err)
		os.Exit(1)
	}
	defer binder.Close()

	render(binder.Current())

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	shown := binder.Current()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down watch")
			return
		case <-ticker.C:
			current := binder.Current()
			if current != shown {
				shown = current
				render(current)
			}
		}
	}
}

func apiBaseURL() string {
	if url := os.Getenv("API_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func fetchEvent(ctx context.Context, apiURL string, id int64) (domain.Event, error) {
	url := fmt.Sprintf("%s/api/events/%d", apiURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Event{}, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return domain.Event{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Event{}, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	var ev domain.Event
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		return domain.Event{}, fmt.Errorf("decode event: %w", err)
	}

	return ev, nil
}

func render(ev domain.Event) {
	fmt.Printf("[%s] %s\n", ev.Date.Format(time.RFC1123), ev.Name)
	if ev.Location != "" {
		fmt.Printf("  location: %s\n", ev.Location)
	}
	if ev.Description != "" {
		fmt.Printf("  %s\n", ev.Description)
	}
}
