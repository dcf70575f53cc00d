package api

// Store is the persistence surface shared by the in-memory and SQLite backends.
// Reads never fail: backends log and return what they could load.
type Store interface {
	AddParticipant(p *Participant) error
	GetParticipant(id string) *Participant
	ListParticipants() []*Participant

	// UpsertResponse stores r, replacing an earlier response with the same
	// participant and section.
	UpsertResponse(r *Response) error
	ListResponses(participantID string) []*Response
	CountResponses() int
}

var _ Store = (*memoryStore)(nil)
