package api

import "github.com/soaringjerry/ahpsurvey/internal/services"

type reportStoreAdapter struct {
	store Store
}

func newReportStoreAdapter(store Store) services.ReportStore {
	return &reportStoreAdapter{store: store}
}

func (a *reportStoreAdapter) ListParticipants() ([]*services.Participant, error) {
	ps := a.store.ListParticipants()
	out := make([]*services.Participant, 0, len(ps))
	for _, p := range ps {
		out = append(out, convertAPIParticipant(p))
	}
	return out, nil
}

func (a *reportStoreAdapter) ListResponses(participantID string) ([]*services.Response, error) {
	rs := a.store.ListResponses(participantID)
	out := make([]*services.Response, 0, len(rs))
	for _, r := range rs {
		out = append(out, convertAPIResponse(r))
	}
	return out, nil
}

var _ services.ReportStore = (*reportStoreAdapter)(nil)
