// Package sessions holds per-session conversational memory for the chat
// pipeline. Sessions are keyed by an opaque caller-chosen identifier and
// live for the hosting process's lifetime; there is no persistence and no
// expiry, so a long-lived session grows without bound.
package sessions

import (
	"slices"

	"github.com/alphadose/haxmap"

	"github.com/promptpipe/promptpipe/messages"
)

// Store is the session memory contract. Get never fails: an unknown
// session is an empty history. Put is a total replacement, not a merge.
// Delete reports whether the session existed and is a no-op otherwise.
//
// Individual operations are safe for concurrent use, but a concurrent
// read-modify-write of the same session (the chat pipeline's access
// pattern) is last-write-wins: one update can be silently discarded. The
// source design leaves this race unaddressed; callers needing stronger
// guarantees must serialize per session key themselves.
type Store interface {
	Get(sessionID string) []messages.Message
	Put(sessionID string, msgs []messages.Message)
	Delete(sessionID string) bool
	List() map[string]int
	Len() int
}

// InMemory returns the process-local store backing the server.
func InMemory() Store {
	return &memoryStore{sessions: haxmap.New[string, []messages.Message]()}
}

type memoryStore struct {
	sessions *haxmap.Map[string, []messages.Message]
}

func (s *memoryStore) Get(sessionID string) []messages.Message {
	msgs, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil
	}
	return slices.Clone(msgs)
}

func (s *memoryStore) Put(sessionID string, msgs []messages.Message) {
	s.sessions.Set(sessionID, slices.Clone(msgs))
}

func (s *memoryStore) Delete(sessionID string) bool {
	_, ok := s.sessions.Get(sessionID)
	if ok {
		s.sessions.Del(sessionID)
	}
	return ok
}

func (s *memoryStore) List() map[string]int {
	out := make(map[string]int)
	s.sessions.ForEach(func(id string, msgs []messages.Message) bool {
		out[id] = len(msgs)
		return true
	})
	return out
}

func (s *memoryStore) Len() int {
	return int(s.sessions.Len())
}
