package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/ahpsurvey/internal/survey"
)

// stubStore satisfies ParticipantStore, ResponseStore and ReportStore.
type stubStore struct {
	participants map[string]*Participant
	responses    []*Response
	failWith     error
}

func newStubStore() *stubStore {
	return &stubStore{participants: map[string]*Participant{}}
}

func (s *stubStore) AddParticipant(p *Participant) (*Participant, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	cp := *p
	s.participants[p.ID] = &cp
	return &cp, nil
}

func (s *stubStore) GetParticipant(id string) (*Participant, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	if p, ok := s.participants[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *stubStore) ListParticipants() ([]*Participant, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]*Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubStore) UpsertResponse(r *Response) (*Response, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	cp := *r
	for i, existing := range s.responses {
		if existing.ParticipantID == r.ParticipantID && existing.Section == r.Section {
			s.responses[i] = &cp
			return &cp, nil
		}
	}
	s.responses = append(s.responses, &cp)
	return &cp, nil
}

func (s *stubStore) ListResponses(participantID string) ([]*Response, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []*Response
	for _, r := range s.responses {
		if participantID == "" || r.ParticipantID == participantID {
			out = append(out, r)
		}
	}
	return out, nil
}

var errStoreDown = errors.New("store down")

func defaultSurvey(t *testing.T) *survey.Definition {
	t.Helper()
	def, err := survey.Default()
	require.NoError(t, err)
	return def
}
