package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

func TestBrokerFiltersByKind(t *testing.T) {
	b := NewBroker(testLogger())
	all := b.Subscribe(allKinds)
	guessed := b.Subscribe("word_guessed")
	defer b.Unsubscribe(allKinds, all)
	defer b.Unsubscribe("word_guessed", guessed)

	b.Notify(
		crocodile.AccountCreated{UserID: 1},
		crocodile.WordGuessed{GuildID: 100, ChannelID: 200, GuesserID: 2, ExplainerID: 1, Word: "крокодил", XP: 8},
	)

	if got := len(all); got != 2 {
		t.Fatalf("all subscriber got %d messages, want 2", got)
	}
	if got := len(guessed); got != 1 {
		t.Fatalf("word_guessed subscriber got %d messages, want 1", got)
	}
	msg := <-guessed
	if msg.Kind != "word_guessed" || !strings.Contains(string(msg.Data), `"guesserId":2`) {
		t.Errorf("unexpected message: %s %s", msg.Kind, msg.Data)
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker(testLogger())
	ch := b.Subscribe(allKinds)
	defer b.Unsubscribe(allKinds, ch)

	for i := range cap(ch) + 5 {
		b.Notify(crocodile.AccountCreated{UserID: int64(i)})
	}
	if len(ch) != cap(ch) {
		t.Fatalf("queued %d, want %d", len(ch), cap(ch))
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(testLogger())
	ch := b.Subscribe("round_started")
	b.Unsubscribe("round_started", ch)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.subs) != 0 {
		t.Fatalf("subs = %v, want empty", b.subs)
	}
}

func waitForSubscriber(t *testing.T, b *Broker, kind string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.RLock()
		n := len(b.subs[kind])
		b.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no subscriber for %q", kind)
}

func TestEventsStream(t *testing.T) {
	broker := NewBroker(testLogger())
	srv := httptest.NewServer(newTestRouterWith(t, newFakeEngine(), broker, ""))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events?kind=round_abandoned", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q, want text/event-stream", got)
	}

	waitForSubscriber(t, broker, "round_abandoned")
	broker.Notify(
		crocodile.AccountCreated{UserID: 1},
		crocodile.RoundAbandoned{ChannelID: 200, StarterID: 1},
	)

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		if sc.Text() == "" {
			break
		}
		lines = append(lines, sc.Text())
	}

	want := []string{
		"event: round_abandoned",
		`data: {"channelId":200,"starterId":1}`,
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("stream = %q, want %q", lines, want)
	}
}
