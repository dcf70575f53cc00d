package services

import (
	"sort"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
	"github.com/soaringjerry/ahpsurvey/internal/survey"
)

type ReportStore interface {
	ListParticipants() ([]*Participant, error)
	// ListResponses returns every response, or only those of participantID when it is set.
	ListResponses(participantID string) ([]*Response, error)
}

// ReportService serves the admin views: response listing, dashboard summary and CSV export.
type ReportService struct {
	store  ReportStore
	survey *survey.Definition
}

// ListFilter narrows ReportService.List.
type ListFilter struct {
	ParticipantID string
	Section       string
}

// ResponseRow is a response joined with its participant.
type ResponseRow struct {
	Response
	ParticipantName string `json:"participant_name"`
	Organization    string `json:"organization,omitempty"`
	Consistent      bool   `json:"consistent"`
}

// SectionSummary aggregates all responses to one section.
type SectionSummary struct {
	Section    string   `json:"section"`
	Criteria   []string `json:"criteria"`
	Responses  int      `json:"responses"`
	Consistent int      `json:"consistent"`
	MeanCR     float64  `json:"mean_cr"`
	// GroupWeights is the normalized geometric mean of the consistent
	// responses' weights; empty while no consistent response exists.
	GroupWeights []float64 `json:"group_weights,omitempty"`
}

// Summary is the admin dashboard payload.
type Summary struct {
	TotalResponses      int              `json:"total_responses"`
	ConsistentResponses int              `json:"consistent_responses"`
	Participants        int              `json:"participants"`
	MeanCR              float64          `json:"mean_cr"`
	Sections            []SectionSummary `json:"sections"`
}

func NewReportService(store ReportStore, def *survey.Definition) *ReportService {
	return &ReportService{store: store, survey: def}
}

// List returns responses newest first, joined with participant name and organization.
func (s *ReportService) List(filter ListFilter) ([]ResponseRow, error) {
	responses, err := s.store.ListResponses(filter.ParticipantID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantIndex()
	if err != nil {
		return nil, err
	}
	rows := make([]ResponseRow, 0, len(responses))
	for _, r := range responses {
		if filter.Section != "" && r.Section != filter.Section {
			continue
		}
		row := ResponseRow{Response: *r, Consistent: r.Consistent()}
		if p, ok := participants[r.ParticipantID]; ok {
			row.ParticipantName = p.Name
			row.Organization = p.Organization
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

// Summary computes dashboard statistics over every stored response.
func (s *ReportService) Summary() (*Summary, error) {
	responses, err := s.store.ListResponses("")
	if err != nil {
		return nil, err
	}
	out := &Summary{Sections: []SectionSummary{}}
	uniq := map[string]struct{}{}
	bySection := map[string][]*Response{}
	var crSum float64
	for _, r := range responses {
		out.TotalResponses++
		crSum += r.CR
		if r.Consistent() {
			out.ConsistentResponses++
		}
		uniq[r.ParticipantID] = struct{}{}
		bySection[r.Section] = append(bySection[r.Section], r)
	}
	out.Participants = len(uniq)
	if out.TotalResponses > 0 {
		out.MeanCR = crSum / float64(out.TotalResponses)
	}
	if s.survey == nil {
		return out, nil
	}
	for i := range s.survey.Sections {
		sec := &s.survey.Sections[i]
		out.Sections = append(out.Sections, summarizeSection(sec, bySection[sec.Key]))
	}
	return out, nil
}

func summarizeSection(sec *survey.Section, responses []*Response) SectionSummary {
	sum := SectionSummary{Section: sec.Key, Criteria: sec.CriterionKeys(), Responses: len(responses)}
	var crSum float64
	var sets [][]float64
	for _, r := range responses {
		crSum += r.CR
		if !r.Consistent() {
			continue
		}
		sum.Consistent++
		if len(r.Weights) == sec.Size() {
			sets = append(sets, r.Weights)
		}
	}
	if len(responses) > 0 {
		sum.MeanCR = crSum / float64(len(responses))
	}
	if len(sets) > 0 {
		if w, err := ahp.AggregatePriorities(sets); err == nil {
			sum.GroupWeights = w
		}
	}
	return sum
}

func (s *ReportService) participantIndex() (map[string]*Participant, error) {
	ps, err := s.store.ListParticipants()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*Participant, len(ps))
	for _, p := range ps {
		idx[p.ID] = p
	}
	return idx, nil
}
