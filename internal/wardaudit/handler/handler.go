// Package handler exposes the ward audit HTTP API.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wardaudit/internal/approval"
	"wardaudit/internal/compliance"
	"wardaudit/internal/facts"
	"wardaudit/internal/platform/metrics"
	"wardaudit/internal/platform/middleware"
	"wardaudit/internal/snapshot"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	audit "wardaudit/pkg/platform/audit"
	"wardaudit/pkg/platform/httputil"
	"wardaudit/pkg/platform/middleware/admin"
	authmw "wardaudit/pkg/platform/middleware/auth"
	"wardaudit/pkg/platform/middleware/metadata"
	"wardaudit/pkg/platform/middleware/requesttime"
	"wardaudit/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Snapshots reads and refreshes cached ward snapshots.
type Snapshots interface {
	Get(ctx context.Context, code domain.WardCode, maxAge time.Duration) (*snapshot.Entry, error)
	RefreshWard(ctx context.Context, code domain.WardCode) (*snapshot.Entry, error)
	RefreshAll(ctx context.Context) (*snapshot.RefreshSummary, error)
}

// Rollups aggregates cached snapshots by region.
type Rollups interface {
	MunicipalityWards(ctx context.Context, code domain.MunicipalityCode) ([]snapshot.MunicipalityWard, error)
	Municipality(ctx context.Context, code domain.MunicipalityCode) (compliance.Rollup, error)
	Province(ctx context.Context, code domain.ProvinceCode) (compliance.Rollup, error)
	National(ctx context.Context) compliance.Rollup
}

// Approver runs the approval transition.
type Approver interface {
	Approve(ctx context.Context, code domain.WardCode, in approval.Input) (*approval.Result, error)
}

// MeetingRecorder records ward meetings.
type MeetingRecorder interface {
	RecordMeeting(ctx context.Context, code domain.WardCode, in facts.MeetingInput) (*facts.Meeting, error)
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	defaultRequestTimeout = 30 * time.Second
	defaultAdminTimeout   = 5 * time.Minute
)

// Handler serves the /ward-audit routes.
type Handler struct {
	snapshots Snapshots
	rollups   Rollups
	approver  Approver
	meetings  MeetingRecorder
	validator authmw.JWTValidator

	auditor        AuditPublisher
	adminToken     string
	requestTimeout time.Duration
	adminTimeout   time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithAdminToken sets the shared token guarding operational routes. Without
// one every admin request is rejected.
func WithAdminToken(token string) Option {
	return func(h *Handler) {
		h.adminToken = token
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(h *Handler) {
		h.auditor = p
	}
}

func New(
	snapshots Snapshots,
	rollups Rollups,
	approver Approver,
	meetings MeetingRecorder,
	validator authmw.JWTValidator,
	opts ...Option,
) *Handler {
	h := &Handler{
		snapshots:      snapshots,
		rollups:        rollups,
		approver:       approver,
		meetings:       meetings,
		validator:      validator,
		requestTimeout: defaultRequestTimeout,
		adminTimeout:   defaultAdminTimeout,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the ward audit routes on r.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(requesttime.Middleware)
	router.Use(metadata.ClientMetadata)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		router.Use(middleware.LatencyMiddleware(h.metrics))
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(h.requestTimeout))
		r.Use(authmw.RequireAuth(h.validator, h.logger))

		r.Get("/ward-audit/wards", h.handleListWards)
		r.Get("/ward-audit/ward/{code}/compliance", h.handleCompliance)
		r.Get("/ward-audit/ward/{code}/compliance/details", h.handleComplianceDetails)
		r.Get("/ward-audit/ward/{code}/voting-districts", h.handleVotingDistricts)
		r.Post("/ward-audit/ward/{code}/approve", h.handleApprove)
		r.Post("/ward-audit/ward/{code}/meeting", h.handleRecordMeeting)

		r.Get("/ward-audit/rollup/national", h.handleNationalRollup)
		r.Get("/ward-audit/rollup/province/{code}", h.handleProvinceRollup)
		r.Get("/ward-audit/rollup/municipality/{code}", h.handleMunicipalityRollup)
	})

	router.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		r.Post("/ward-audit/admin/refresh", h.handleAdminRefresh)
	})

	r.Mount("/", router)
}

func (h *Handler) handleListWards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code, err := domain.ParseMunicipalityCode(r.URL.Query().Get("municipality_code"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	wards, err := h.rollups.MunicipalityWards(ctx, code)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	rows := make([]WardRow, 0, len(wards))
	for _, mw := range wards {
		rows = append(rows, toWardRow(mw))
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleCompliance(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSummary(entry))
}

func (h *Handler) handleComplianceDetails(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ComplianceDetails{
		ComplianceSummary: toSummary(entry),
		Criteria:          entry.Snapshot.Criteria,
	})
}

func (h *Handler) handleVotingDistricts(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	rows := entry.Snapshot.VotingDistricts
	if rows == nil {
		rows = []compliance.VotingDistrictRow{}
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

// loadEntry resolves the {code} path parameter and the optional max_age query
// parameter into a snapshot, writing the error response itself on failure.
func (h *Handler) loadEntry(w http.ResponseWriter, r *http.Request) (*snapshot.Entry, bool) {
	ctx := r.Context()
	code, err := domain.ParseWardCode(chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(ctx, w, err)
		return nil, false
	}
	maxAge, err := parseMaxAge(r.URL.Query().Get("max_age"))
	if err != nil {
		h.writeError(ctx, w, err)
		return nil, false
	}
	entry, err := h.snapshots.Get(ctx, code, maxAge)
	if err != nil {
		h.writeError(ctx, w, err)
		return nil, false
	}
	return entry, true
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code, err := domain.ParseWardCode(chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	var req ApproveRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(ctx, w, err)
			return
		}
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	res, err := h.approver.Approve(ctx, code, in)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toApprovalResponse(res))
}

func (h *Handler) handleRecordMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code, err := domain.ParseWardCode(chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	var req RecordMeetingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	m, err := h.meetings.RecordMeeting(ctx, code, in)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, MeetingResponse{MeetingID: m.ID})
}

func (h *Handler) handleNationalRollup(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.rollups.National(r.Context()))
}

func (h *Handler) handleProvinceRollup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code, err := domain.ParseProvinceCode(chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	rollup, err := h.rollups.Province(ctx, code)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rollup)
}

func (h *Handler) handleMunicipalityRollup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code, err := domain.ParseMunicipalityCode(chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	rollup, err := h.rollups.Municipality(ctx, code)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rollup)
}

// handleAdminRefresh refreshes one ward (ward query parameter or ward_code in
// the body) or, without one, every ward. The refresh outlives a client that
// disconnects, bounded by the admin timeout.
func (h *Handler) handleAdminRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RefreshRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(ctx, w, err)
			return
		}
	}
	raw := r.URL.Query().Get("ward")
	if raw == "" {
		raw = req.WardCode
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.adminTimeout)
	defer cancel()

	if raw == "" {
		h.emitRefreshRequested(ctx, "all")
		summary, err := h.snapshots.RefreshAll(ctx)
		if err != nil {
			h.writeError(ctx, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, summary)
		return
	}

	code, err := domain.ParseWardCode(raw)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.emitRefreshRequested(ctx, code.String())
	entry, err := h.snapshots.RefreshWard(ctx, code)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WardRefreshResponse{
		WardCode:          code,
		AllCriteriaPassed: entry.Snapshot.AllCriteriaPassed,
		IsCompliant:       entry.Snapshot.IsCompliant,
		ComputedAt:        entry.Snapshot.ComputedAt,
		Version:           entry.Version,
	})
}

func (h *Handler) emitRefreshRequested(ctx context.Context, scope string) {
	if h.auditor == nil {
		return
	}
	event := audit.Event{
		Action:  string(audit.EventRefreshRequested),
		Subject: scope,
		ActorID: "admin",
	}
	if scope != "all" {
		event.WardCode = scope
	}
	if err := h.auditor.Emit(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to emit refresh audit event", "error", err)
	}
}

// writeError logs server-side failures and writes the error envelope.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok || dErrors.ToHTTPStatus(de.Code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
