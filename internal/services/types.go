package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
)

// Participant is the respondent who fills in the pairwise comparisons.
type Participant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Response is one participant's completed comparison matrix for one section.
type Response struct {
	ID            string             `json:"id"`
	ParticipantID string             `json:"participant_id"`
	Section       string             `json:"section"`
	Judgments     map[string]float64 `json:"judgments,omitempty"`
	Matrix        ahp.Matrix         `json:"matrix"`
	Weights       []float64          `json:"weights"`
	LambdaMax     float64            `json:"lambda_max"`
	CI            float64            `json:"ci"`
	CR            float64            `json:"cr"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Consistent reports whether the stored CR passes the consistency threshold.
func (r *Response) Consistent() bool { return ahp.IsConsistent(r.CR) }

// JudgmentValue is a scale value that decodes from a JSON number (3, 0.333)
// or a string ("3", "1/3").
type JudgmentValue float64

func (v *JudgmentValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := ahp.ParseJudgment(s)
		if err != nil {
			return err
		}
		*v = JudgmentValue(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("judgment: %w", err)
	}
	*v = JudgmentValue(f)
	return nil
}

// Judgments maps "i_j" pair keys to the judgment at row i, column j (i < j).
type Judgments map[string]JudgmentValue

// pairs converts the keyed judgments into engine pairs.
func (js Judgments) pairs() (map[ahp.Pair]float64, error) {
	out := make(map[ahp.Pair]float64, len(js))
	for key, v := range js {
		p, err := ahp.ParsePairKey(key)
		if err != nil {
			return nil, err
		}
		out[p] = float64(v)
	}
	return out, nil
}
