// Package sse pushes change notifications to open dashboard tabs over
// Server-Sent Events.
package sse

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/config"
)

// MsgReload tells a tab to refetch its record list.
const MsgReload = "reload"

// Topic names the stream for one screen of one browser session.
func Topic(sessionID, screen string) string {
	return sessionID + ":" + screen
}

type Client struct {
	Msg   chan string
	Topic string
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clients[client] {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends msg to every client on topic without blocking. Clients that
// are not ready to receive miss the message. It returns how many received it.
func (s *SSEClients) Broadcast(topic, msg string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sent := 0
	for client := range s.clients {
		if client.Topic != topic {
			continue
		}
		select {
		case client.Msg <- msg:
			sent++
		default:
		}
	}
	return sent
}

// Handler streams messages for the topic topicOf picks from the request.
// A false second return answers 400.
func (s *SSEClients) Handler(topicOf func(*http.Request) (string, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic, ok := topicOf(r)
		if !ok {
			http.Error(w, "screen parameter required", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set(config.HCType, "text/event-stream")
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Del("X-Content-Type-Options")

		fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
		flusher.Flush()

		client := &Client{
			Msg:   make(chan string, 1),
			Topic: topic,
		}
		s.Add(client)

		l := zerolog.Ctx(r.Context())
		l.Debug().Str("topic", topic).Msg("SSE client connected")
		defer func() {
			s.Delete(client)
			l.Debug().Str("topic", topic).Msg("SSE client disconnected")
		}()

		notify := r.Context().Done()
		for {
			select {
			case msg := <-client.Msg:
				fmt.Fprintf(w, "data: %s\n\n", msg)
				flusher.Flush()
			case <-notify:
				return
			}
		}
	}
}
