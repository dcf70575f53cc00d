package api

import (
	"github.com/soaringjerry/ahpsurvey/internal/ahp"
	"github.com/soaringjerry/ahpsurvey/internal/services"
)

type participantStoreAdapter struct {
	store Store
}

func newParticipantStoreAdapter(store Store) services.ParticipantStore {
	return &participantStoreAdapter{store: store}
}

func (a *participantStoreAdapter) AddParticipant(p *services.Participant) (*services.Participant, error) {
	if p == nil {
		return nil, services.NewInvalidError("participant required")
	}
	ap := &Participant{ID: p.ID, Name: p.Name, Email: p.Email, Organization: p.Organization, Position: p.Position, CreatedAt: p.CreatedAt}
	if err := a.store.AddParticipant(ap); err != nil {
		return nil, err
	}
	return convertAPIParticipant(ap), nil
}

func (a *participantStoreAdapter) GetParticipant(id string) (*services.Participant, error) {
	return convertAPIParticipant(a.store.GetParticipant(id)), nil
}

func convertAPIParticipant(p *Participant) *services.Participant {
	if p == nil {
		return nil
	}
	return &services.Participant{ID: p.ID, Name: p.Name, Email: p.Email, Organization: p.Organization, Position: p.Position, CreatedAt: p.CreatedAt}
}

func convertAPIResponse(r *Response) *services.Response {
	if r == nil {
		return nil
	}
	return &services.Response{
		ID:            r.ID,
		ParticipantID: r.ParticipantID,
		Section:       r.Section,
		Judgments:     r.Judgments,
		Matrix:        ahp.Matrix(r.Matrix),
		Weights:       r.Weights,
		LambdaMax:     r.LambdaMax,
		CI:            r.CI,
		CR:            r.CR,
		CreatedAt:     r.CreatedAt,
	}
}

var _ services.ParticipantStore = (*participantStoreAdapter)(nil)
