package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/treasurehunt/internal/registry"
)

const topicLeaderboard = "leaderboard"

// LeaderboardEvent is published to leaderboard subscribers after every
// change in scores or teams.
type LeaderboardEvent struct {
	Type      string             `json:"type"`
	Standings []StandingResponse `json:"standings"`
}

// Broker is an in-process pub/sub for SSE events, keyed by topic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the topic.
func (b *Broker) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan []byte]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Subscribers counts the channels subscribed to a topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Publish sends an event to all subscribers of the topic.
func (b *Broker) Publish(topic string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// LeaderboardChanged implements registry.LeaderboardListener. The registry
// calls it in command order, so subscribers never see an older ranking after
// a newer one.
func (b *Broker) LeaderboardChanged(rows []registry.Standing) {
	b.Publish(topicLeaderboard, LeaderboardEvent{
		Type:      "leaderboard",
		Standings: toStandings(rows),
	})
}
