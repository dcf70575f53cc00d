package api

import "github.com/soaringjerry/ahpsurvey/internal/services"

type responseStoreAdapter struct {
	store Store
}

func newResponseStoreAdapter(store Store) services.ResponseStore {
	return &responseStoreAdapter{store: store}
}

func (a *responseStoreAdapter) GetParticipant(id string) (*services.Participant, error) {
	return convertAPIParticipant(a.store.GetParticipant(id)), nil
}

func (a *responseStoreAdapter) UpsertResponse(r *services.Response) (*services.Response, error) {
	if r == nil {
		return nil, services.NewInvalidError("response required")
	}
	ar := &Response{
		ID:            r.ID,
		ParticipantID: r.ParticipantID,
		Section:       r.Section,
		Judgments:     r.Judgments,
		Matrix:        r.Matrix,
		Weights:       r.Weights,
		LambdaMax:     r.LambdaMax,
		CI:            r.CI,
		CR:            r.CR,
		CreatedAt:     r.CreatedAt,
	}
	if err := a.store.UpsertResponse(ar); err != nil {
		return nil, err
	}
	return convertAPIResponse(ar), nil
}

var _ services.ResponseStore = (*responseStoreAdapter)(nil)
