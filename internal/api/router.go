package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/soaringjerry/ahpsurvey/internal/ahp"
	"github.com/soaringjerry/ahpsurvey/internal/metrics"
	"github.com/soaringjerry/ahpsurvey/internal/middleware"
	"github.com/soaringjerry/ahpsurvey/internal/services"
	"github.com/soaringjerry/ahpsurvey/internal/survey"
	"github.com/soaringjerry/ahpsurvey/internal/utils"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// Options carries the collaborators a Router needs besides its store.
type Options struct {
	Survey        *survey.Definition
	Admin         services.AdminAccount
	Authenticator *middleware.Authenticator
	TokenTTL      time.Duration
	Logger        *slog.Logger
}

type Router struct {
	survey       *survey.Definition
	authn        *middleware.Authenticator
	logger       *slog.Logger
	participants *services.ParticipantService
	responses    *services.ResponseService
	reports      *services.ReportService
	auth         *services.AuthService
}

// NewRouter wires the services over store. A nil Store selects the in-memory backend.
func NewRouter(store Store, opts Options) *Router {
	if store == nil {
		store = newMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Authenticator == nil {
		opts.Authenticator = middleware.NewAuthenticator(nil)
	}
	responses := services.NewResponseService(newResponseStoreAdapter(store), opts.Survey)
	responses.OnSubmit(func(r *services.Response) {
		metrics.ObserveSubmission(r.Section, r.CR, r.Consistent())
	})
	return &Router{
		survey:       opts.Survey,
		authn:        opts.Authenticator,
		logger:       opts.Logger,
		participants: services.NewParticipantService(newParticipantStoreAdapter(store)),
		responses:    responses,
		reports:      services.NewReportService(newReportStoreAdapter(store), opts.Survey),
		auth:         services.NewAuthService(opts.Admin, opts.Authenticator.SignToken, opts.TokenTTL),
	}
}

// Routes lists the API paths served by Register.
func Routes() []string {
	return []string{
		"/api/survey",
		"/api/participants",
		"/api/compute",
		"/api/responses",
		"/api/admin/summary",
		"/api/export",
		"/api/auth/login",
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	admin := func(h http.HandlerFunc) http.Handler {
		return rt.authn.WithAuth(middleware.RequireAuth(h))
	}
	mux.HandleFunc("/api/survey", rt.handleSurvey)                                        // GET
	mux.HandleFunc("/api/participants", rt.handleParticipants)                            // POST
	mux.HandleFunc("/api/compute", rt.handleCompute)                                      // POST
	mux.Handle("/api/responses", rt.authn.WithAuth(http.HandlerFunc(rt.handleResponses))) // POST, GET (admin)
	mux.Handle("/api/admin/summary", admin(rt.handleSummary))                             // GET
	mux.Handle("/api/export", admin(rt.handleExport))                                     // GET
	mux.HandleFunc("/api/auth/login", rt.handleLogin)                                     // POST
}

type scaleOption struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// GET /api/survey?lang=xx
func (rt *Router) handleSurvey(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if rt.survey == nil {
		writeError(w, http.StatusNotFound, "survey not configured")
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	scale := ahp.Scale()
	options := make([]scaleOption, 0, len(scale))
	for _, v := range scale {
		options = append(options, scaleOption{Value: v, Label: ahp.FormatJudgment(v)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locale":         locale,
		"default_locale": rt.survey.DefaultLocale,
		"locales":        rt.survey.Locales,
		"threshold":      ahp.ConsistencyThreshold,
		"scale":          options,
		"sections":       rt.survey.Localize(locale),
	})
}

// POST /api/participants
// { name, email?, organization?, position? }
func (rt *Router) handleParticipants(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req services.RegisterRequest
	if !rt.decode(w, r, &req) {
		return
	}
	p, err := rt.participants.Register(req)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type computeRequest struct {
	Section   string             `json:"section"`
	Judgments services.Judgments `json:"judgments"`
	Matrix    ahp.Matrix         `json:"matrix"`
}

// POST /api/compute
// { section, judgments: {"0_1": 3, ...} } or { section?, matrix: [[...]] }
func (rt *Router) handleCompute(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req computeRequest
	if !rt.decode(w, r, &req) {
		return
	}
	var (
		res *services.SectionResult
		err error
	)
	if len(req.Matrix) > 0 {
		res, err = rt.responses.PreviewMatrix(req.Section, req.Matrix)
	} else {
		res, err = rt.responses.Preview(req.Section, req.Judgments)
	}
	metrics.ObserveComputation(err == nil)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"section":    res.Section,
		"criteria":   res.Criteria,
		"matrix":     res.Matrix,
		"result":     res.Result,
		"consistent": res.Consistent,
		"message":    utils.ConsistencyMessage(locale, res.Consistent),
	})
}

// POST /api/responses  { participant_id, section, judgments | matrix }
// GET  /api/responses?participant_id=&section=  (admin)
func (rt *Router) handleResponses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req services.SubmitRequest
		if !rt.decode(w, r, &req) {
			return
		}
		resp, err := rt.responses.Handle(req)
		if err != nil {
			rt.writeServiceError(w, r, err)
			return
		}
		locale := middleware.LocaleFromContext(r.Context())
		writeJSON(w, http.StatusCreated, map[string]any{
			"ok":         true,
			"response":   resp,
			"consistent": resp.Consistent(),
			"message":    utils.ConsistencyMessage(locale, resp.Consistent()),
		})
	case http.MethodGet:
		if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		q := r.URL.Query()
		rows, err := rt.reports.List(services.ListFilter{
			ParticipantID: strings.TrimSpace(q.Get("participant_id")),
			Section:       strings.TrimSpace(q.Get("section")),
		})
		if err != nil {
			rt.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"responses": rows, "count": len(rows)})
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// GET /api/admin/summary
func (rt *Router) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	sum, err := rt.reports.Summary()
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GET /api/export?lang=xx
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	b, err := rt.reports.ExportCSV(middleware.LocaleFromContext(r.Context()))
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+services.ExportFilename)
	_, _ = w.Write(b)
}

// POST /api/auth/login { email, password }
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !rt.decode(w, r, &req) {
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decode reads a JSON body of at most maxBodyBytes into v. Unknown fields are
// ignored so older clients may keep sending their computed weights.
func (rt *Router) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, utils.T(middleware.LocaleFromContext(r.Context()), "error.bad_request"))
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return false
	}
	return true
}

// writeJSON encodes v before touching the response, so an encoding failure
// becomes a 500 instead of a success status with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Default().Error("encode response", "err", err)
		buf.Reset()
		buf.WriteString(`{"error":"internal error"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (rt *Router) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if se, ok := services.AsServiceError(err); ok {
		writeError(w, statusForCode(se.Code), se.Message)
		return
	}
	rt.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, utils.T(middleware.LocaleFromContext(r.Context()), "error.internal"))
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid:
		return http.StatusBadRequest
	case services.ErrorForbidden:
		return http.StatusForbidden
	case services.ErrorNotFound:
		return http.StatusNotFound
	case services.ErrorConflict:
		return http.StatusConflict
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
