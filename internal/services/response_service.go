package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
	"github.com/soaringjerry/ahpsurvey/internal/survey"
)

// MatrixTolerance is the reciprocity tolerance for client-supplied matrices,
// which usually arrive rounded to three decimals (1/3 as 0.333).
const MatrixTolerance = 5e-3

// ResponseStore abstracts persistence operations required by ResponseService.
type ResponseStore interface {
	GetParticipant(id string) (*Participant, error)
	// UpsertResponse stores r, replacing any earlier response with the same
	// participant and section.
	UpsertResponse(r *Response) (*Response, error)
}

// SectionResult is the AHP outcome for one section, persisted or not.
type SectionResult struct {
	Section    string      `json:"section,omitempty"`
	Criteria   []string    `json:"criteria,omitempty"`
	Matrix     ahp.Matrix  `json:"matrix"`
	Result     *ahp.Result `json:"result"`
	Consistent bool        `json:"consistent"`
}

// SubmitRequest is the inbound payload of POST /api/responses. Exactly one of
// Judgments and Matrix is used; Matrix wins when both are present.
type SubmitRequest struct {
	ParticipantID string     `json:"participant_id" validate:"notblank"`
	Section       string     `json:"section" validate:"notblank"`
	Judgments     Judgments  `json:"judgments"`
	Matrix        ahp.Matrix `json:"matrix"`
}

// ResponseService computes section weights and stores the participant's answers.
type ResponseService struct {
	store       ResponseStore
	survey      *survey.Definition
	now         func() time.Time
	idGenerator func() string
	observers   []func(*Response)
}

// NewResponseService constructs a service bound to the provided persistence interface.
func NewResponseService(store ResponseStore, def *survey.Definition) *ResponseService {
	return &ResponseService{
		store:       store,
		survey:      def,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

// OnSubmit registers fn to run after every stored response.
func (s *ResponseService) OnSubmit(fn func(*Response)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

func (s *ResponseService) section(key string) (*survey.Section, error) {
	if strings.TrimSpace(key) == "" {
		return nil, NewInvalidError("section required")
	}
	if s.survey == nil {
		return nil, NewNotFoundError("section not found")
	}
	sec, ok := s.survey.Section(key)
	if !ok {
		return nil, NewNotFoundError(fmt.Sprintf("section %q not found", key))
	}
	return sec, nil
}

// Preview builds the section's matrix from judgments and computes it without storing anything.
func (s *ResponseService) Preview(sectionKey string, judgments Judgments) (*SectionResult, error) {
	sec, err := s.section(sectionKey)
	if err != nil {
		return nil, err
	}
	m, err := buildSectionMatrix(sec, judgments)
	if err != nil {
		return nil, err
	}
	return computeSection(sec, m)
}

// PreviewMatrix computes a raw matrix. Off-diagonal cells must lie on the
// judgment scale. When sectionKey is set the matrix order must match that section.
func (s *ResponseService) PreviewMatrix(sectionKey string, m ahp.Matrix) (*SectionResult, error) {
	m, err := snapMatrix(m)
	if err != nil {
		return nil, err
	}
	if sectionKey == "" {
		res, err := compute(m)
		if err != nil {
			return nil, err
		}
		return &SectionResult{Matrix: m, Result: res, Consistent: res.Consistent()}, nil
	}
	sec, err := s.section(sectionKey)
	if err != nil {
		return nil, err
	}
	if len(m) != sec.Size() {
		return nil, NewInvalidError(fmt.Sprintf("section %q needs a %dx%d matrix", sec.Key, sec.Size(), sec.Size()))
	}
	return computeSection(sec, m)
}

// Submit stores the participant's judgments for a section. Submitting the same
// section again replaces the earlier answer.
func (s *ResponseService) Submit(participantID, sectionKey string, judgments Judgments) (*Response, error) {
	sec, err := s.checkSubmission(participantID, sectionKey)
	if err != nil {
		return nil, err
	}
	m, err := buildSectionMatrix(sec, judgments)
	if err != nil {
		return nil, err
	}
	res, err := computeSection(sec, m)
	if err != nil {
		return nil, err
	}
	keyed := make(map[string]float64, len(judgments))
	for _, p := range ahp.Pairs(sec.Size()) {
		keyed[p.Key()] = m[p.I][p.J]
	}
	return s.persist(participantID, sec.Key, keyed, res)
}

// SubmitMatrix stores a raw matrix for a section. Off-diagonal cells are
// snapped to the judgment scale; weights and consistency are always
// recomputed here and values computed by the client are not trusted.
func (s *ResponseService) SubmitMatrix(participantID, sectionKey string, m ahp.Matrix) (*Response, error) {
	sec, err := s.checkSubmission(participantID, sectionKey)
	if err != nil {
		return nil, err
	}
	if len(m) != sec.Size() {
		return nil, NewInvalidError(fmt.Sprintf("section %q needs a %dx%d matrix", sec.Key, sec.Size(), sec.Size()))
	}
	m, err = snapMatrix(m)
	if err != nil {
		return nil, err
	}
	res, err := computeSection(sec, m)
	if err != nil {
		return nil, err
	}
	return s.persist(participantID, sec.Key, nil, res)
}

// Handle dispatches a SubmitRequest to Submit or SubmitMatrix.
func (s *ResponseService) Handle(req SubmitRequest) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if len(req.Matrix) > 0 {
		return s.SubmitMatrix(req.ParticipantID, req.Section, req.Matrix)
	}
	return s.Submit(req.ParticipantID, req.Section, req.Judgments)
}

func (s *ResponseService) checkSubmission(participantID, sectionKey string) (*survey.Section, error) {
	if s.store == nil {
		return nil, errors.New("response service store is nil")
	}
	if strings.TrimSpace(participantID) == "" {
		return nil, NewInvalidError("participant_id required")
	}
	sec, err := s.section(sectionKey)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("participant not found")
	}
	return sec, nil
}

func (s *ResponseService) persist(participantID, section string, judgments map[string]float64, res *SectionResult) (*Response, error) {
	r := &Response{
		ID:            s.idGenerator(),
		ParticipantID: participantID,
		Section:       section,
		Judgments:     judgments,
		Matrix:        res.Matrix,
		Weights:       res.Result.Weights,
		LambdaMax:     res.Result.LambdaMax,
		CI:            res.Result.CI,
		CR:            res.Result.CR,
		CreatedAt:     s.now(),
	}
	stored, err := s.store.UpsertResponse(r)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		r = stored
	}
	for _, fn := range s.observers {
		fn(r)
	}
	return r, nil
}

func buildSectionMatrix(sec *survey.Section, judgments Judgments) (ahp.Matrix, error) {
	pairs, err := judgments.pairs()
	if err != nil {
		return nil, NewInvalidError(err.Error())
	}
	m, err := ahp.BuildMatrix(sec.Size(), pairs)
	if err != nil {
		return nil, NewInvalidError(err.Error())
	}
	return m, nil
}

// snapMatrix returns a copy of m with every off-diagonal cell replaced by the
// scale value it represents. Off-scale cells are rejected as invalid.
func snapMatrix(m ahp.Matrix) (ahp.Matrix, error) {
	out := m.Clone()
	for i, row := range out {
		for j, v := range row {
			if i == j {
				continue
			}
			snapped, err := ahp.SnapJudgment(v)
			if err != nil {
				return nil, NewInvalidError(fmt.Sprintf("matrix entry (%d,%d): %v", i, j, err))
			}
			row[j] = snapped
		}
	}
	return out, nil
}

func computeSection(sec *survey.Section, m ahp.Matrix) (*SectionResult, error) {
	res, err := compute(m)
	if err != nil {
		return nil, err
	}
	return &SectionResult{
		Section:    sec.Key,
		Criteria:   sec.CriterionKeys(),
		Matrix:     m,
		Result:     res,
		Consistent: res.Consistent(),
	}, nil
}

// compute runs the engine and maps every engine error to an invalid ServiceError.
func compute(m ahp.Matrix) (*ahp.Result, error) {
	res, err := ahp.Compute(m, ahp.WithTolerance(MatrixTolerance))
	if err != nil {
		return nil, NewInvalidError(err.Error())
	}
	return res, nil
}
