package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type Participant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Response struct {
	ID            string             `json:"id"`
	ParticipantID string             `json:"participant_id"`
	Section       string             `json:"section"`
	Judgments     map[string]float64 `json:"judgments,omitempty"`
	Matrix        [][]float64        `json:"matrix"`
	Weights       []float64          `json:"weights"`
	LambdaMax     float64            `json:"lambda_max"`
	CI            float64            `json:"ci"`
	CR            float64            `json:"cr"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Snapshot is the JSON file format of a persisted memory store.
type Snapshot struct {
	Participants []*Participant `json:"participants"`
	Responses    []*Response    `json:"responses"`
}

type memoryStore struct {
	mu           sync.RWMutex
	participants map[string]*Participant
	responses    []*Response
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		participants: map[string]*Participant{},
		responses:    []*Response{},
	}
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func (s *memoryStore) AddParticipant(p *Participant) error {
	if p == nil || p.ID == "" {
		return errors.New("participant id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.participants[p.ID] = &cp
	return nil
}

func (s *memoryStore) GetParticipant(id string) *Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.participants[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (s *memoryStore) ListParticipants() []*Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Participant, 0, len(s.participants))
	for _, p := range s.participants {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memoryStore) UpsertResponse(r *Response) error {
	if r == nil || r.ParticipantID == "" || r.Section == "" {
		return errors.New("response participant and section required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	for i, existing := range s.responses {
		if existing.ParticipantID == r.ParticipantID && existing.Section == r.Section {
			s.responses[i] = &cp
			return nil
		}
	}
	s.responses = append(s.responses, &cp)
	return nil
}

func (s *memoryStore) ListResponses(participantID string) []*Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Response, 0, len(s.responses))
	for _, r := range s.responses {
		if participantID != "" && r.ParticipantID != participantID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out
}

func (s *memoryStore) CountResponses() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.responses)
}

// MemoryStoreSnapshot copies the content of a memory store. It returns nil for other backends.
func MemoryStoreSnapshot(st Store) *Snapshot {
	ms, ok := st.(*memoryStore)
	if !ok {
		return nil
	}
	return &Snapshot{Participants: ms.ListParticipants(), Responses: ms.ListResponses("")}
}

// NewMemoryStoreFromPath loads a snapshot written by SaveMemoryStore. A missing
// file yields an error wrapping os.ErrNotExist.
func NewMemoryStoreFromPath(path string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path: %w", os.ErrNotExist)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	ms := newMemoryStore()
	if err := CopySnapshot(&snap, ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// SaveMemoryStore writes the store's snapshot atomically to path.
func SaveMemoryStore(st Store, path string) error {
	snap := MemoryStoreSnapshot(st)
	if snap == nil {
		return errors.New("save snapshot: not a memory store")
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// CopySnapshot replays every participant and response of snap into dst.
func CopySnapshot(snap *Snapshot, dst Store) error {
	for _, p := range snap.Participants {
		if p == nil {
			continue
		}
		if err := dst.AddParticipant(p); err != nil {
			return fmt.Errorf("copy participant %s: %w", p.ID, err)
		}
	}
	for _, r := range snap.Responses {
		if r == nil {
			continue
		}
		if err := dst.UpsertResponse(r); err != nil {
			return fmt.Errorf("copy response %s: %w", r.ID, err)
		}
	}
	return nil
}
