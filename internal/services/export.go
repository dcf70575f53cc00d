package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/soaringjerry/ahpsurvey/internal/utils"
)

// ExportFilename is the attachment name used for the CSV download.
const ExportFilename = "ahp-responses.csv"

var exportColumns = []string{"csv.participant", "csv.organization", "csv.section", "csv.cr", "csv.date", "csv.weights"}

// ExportCSV renders every response, newest first, with a header row in locale.
// Weights keep the section's criterion order and are joined with "; ".
func (s *ReportService) ExportCSV(locale string) ([]byte, error) {
	rows, err := s.List(ListFilter{})
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := make([]string, len(exportColumns))
	for i, key := range exportColumns {
		header[i] = utils.T(locale, key)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		name := r.ParticipantName
		if name == "" {
			name = r.ParticipantID
		}
		rec := []string{
			name,
			r.Organization,
			s.sectionTitle(r.Section, locale),
			strconv.FormatFloat(r.CR, 'f', 3, 64),
			r.CreatedAt.Format("2006-01-02"),
			formatWeights(r.Weights),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *ReportService) sectionTitle(key, locale string) string {
	if s.survey == nil {
		return key
	}
	sec, ok := s.survey.Section(key)
	if !ok {
		return key
	}
	return sec.Localize(locale, s.survey.DefaultLocale).Title
}

func formatWeights(ws []float64) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = strconv.FormatFloat(w, 'f', 3, 64)
	}
	return strings.Join(parts, "; ")
}
