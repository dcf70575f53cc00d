package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ParticipantStore interface {
	AddParticipant(p *Participant) (*Participant, error)
	GetParticipant(id string) (*Participant, error)
}

// RegisterRequest carries the participant form of the survey's first page.
type RegisterRequest struct {
	Name         string `json:"name" validate:"notblank,max=200"`
	Email        string `json:"email" validate:"omitempty,email,max=254"`
	Organization string `json:"organization" validate:"max=200"`
	Position     string `json:"position" validate:"max=200"`
}

type ParticipantService struct {
	store       ParticipantStore
	now         func() time.Time
	idGenerator func() string
}

func NewParticipantService(store ParticipantStore) *ParticipantService {
	return &ParticipantService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: defaultParticipantID,
	}
}

func defaultParticipantID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Register validates the form and stores a new participant.
func (s *ParticipantService) Register(req RegisterRequest) (*Participant, error) {
	if s.store == nil {
		return nil, errors.New("participant service store is nil")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Organization = strings.TrimSpace(req.Organization)
	req.Position = strings.TrimSpace(req.Position)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p := &Participant{
		ID:           s.idGenerator(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Organization: req.Organization,
		Position:     req.Position,
		CreatedAt:    s.now(),
	}
	stored, err := s.store.AddParticipant(p)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		p = stored
	}
	return p, nil
}

// Get returns the participant or a not_found error.
func (s *ParticipantService) Get(id string) (*Participant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidError("participant_id required")
	}
	p, err := s.store.GetParticipant(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("participant not found")
	}
	return p, nil
}
