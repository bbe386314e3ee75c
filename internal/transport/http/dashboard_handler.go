package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/BipinP21/fda-submission-tracker/internal/config"
	apierrors "github.com/BipinP21/fda-submission-tracker/internal/errors"
	"github.com/BipinP21/fda-submission-tracker/internal/exporter"
	"github.com/BipinP21/fda-submission-tracker/internal/services"
	"github.com/BipinP21/fda-submission-tracker/pkg/contracts/domain"
)

// exportDateFormat is how Submission_Date is rendered in the CSV download.
const exportDateFormat = "2006-01-02"

// DashboardServiceInterface is the service surface the handler needs;
// tests substitute their own implementation.
type DashboardServiceInterface interface {
	GetSummary(ctx context.Context, f services.Filter) (*services.Summary, error)
	TopSponsors(ctx context.Context, f services.Filter, limit int) ([]services.CountItem, error)
	MonthlyTrend(ctx context.Context, f services.Filter) ([]services.TrendPoint, error)
	StatusDistribution(ctx context.Context, f services.Filter) ([]services.CountItem, error)
	TypeBreakdown(ctx context.Context, f services.Filter) ([]services.CountItem, error)
	Submissions(ctx context.Context, f services.Filter) ([]domain.Submission, error)
	Invalidate()
}

// DashboardHandler serves the dashboard API.
type DashboardHandler struct {
	service DashboardServiceInterface
	logger  *slog.Logger
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service: service,
		logger:  logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Routes returns the dashboard routes. Every endpoint accepts the same
// filter query parameters: q, year_from, year_to, and repeatable status,
// sponsor and drug multi-selects.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/sponsors/top", h.GetTopSponsors)
	r.Get("/trend/monthly", h.GetMonthlyTrend)
	r.Get("/status-distribution", h.GetStatusDistribution)
	r.Get("/types", h.GetTypeBreakdown)
	r.Get("/submissions", h.GetSubmissions)
	r.Get("/export", h.ExportCSV)
	r.Post("/reload", h.Reload)

	return r
}

// parseFilter builds the filter from query parameters. Multi-select
// parameters repeat: ?status=Approved&status=Tentative+Approval.
func parseFilter(r *http.Request) (services.Filter, error) {
	q := r.URL.Query()

	yearFrom, err := services.ParseYear(q.Get("year_from"))
	if err != nil {
		return services.Filter{}, apierrors.InvalidParameter("year_from", "must be an integer year")
	}
	yearTo, err := services.ParseYear(q.Get("year_to"))
	if err != nil {
		return services.Filter{}, apierrors.InvalidParameter("year_to", "must be an integer year")
	}

	return services.Filter{
		Search:   q.Get("q"),
		YearFrom: yearFrom,
		YearTo:   yearTo,
		Statuses: q["status"],
		Sponsors: q["sponsor"],
		Drugs:    q["drug"],
	}, nil
}

func (h *DashboardHandler) respondData(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
		"count":  count,
	})
}

func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "dashboard request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))

	if apiErr, ok := err.(*apierrors.APIError); ok {
		apierrors.Respond(w, r, apiErr)
		return
	}
	if isDatasetUnavailable(err) {
		apierrors.Respond(w, r, apierrors.DatasetUnavailable(err))
		return
	}
	apierrors.Respond(w, r, err)
}

func isDatasetUnavailable(err error) bool {
	return errors.Is(err, services.ErrDatasetUnavailable)
}

// GetSummary handles GET /summary.
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		apierrors.Respond(w, r, err)
		return
	}

	summary, err := h.service.GetSummary(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondData(w, r, summary, summary.TotalSubmissions)
}

// GetTopSponsors handles GET /sponsors/top.
func (h *DashboardHandler) GetTopSponsors(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		apierrors.Respond(w, r, err)
		return
	}

	items, err := h.service.TopSponsors(r.Context(), f, 10)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondData(w, r, items, len(items))
}

// GetMonthlyTrend handles GET /trend/monthly.
func (h *DashboardHandler) GetMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		apierrors.Respond(w, r, err)
		return
	}

	points, err := h.service.MonthlyTrend(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondData(w, r, points, len(points))
}

// GetStatusDistribution handles GET /status-distribution.
func (h *DashboardHandler) GetStatusDistribution(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		apierrors.Respond(w, r, err)
		return
	}

	items, err := h.service.StatusDistribution(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondData(w, r, items, len(items))
}

// GetTypeBreakdown handles GET /types.
func (h *DashboardHandler) GetTypeBreakdown(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		apierrors.Respond(w, r, err)
		return
	}

	items, err := h.service.TypeBreakdown(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondData(w, r, items, len(items))
}

// GetSubmissions handles GET /submissions: the row-level filtered table.
func (h *DashboardHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		apierrors.Respond(w, r, err)
		return
	}

	records, err := h.service.Submissions(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.respondData(w, r, records, len(records))
}

// ExportCSV handles GET /export: downloads the exact filtered set as CSV.
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		apierrors.Respond(w, r, err)
		return
	}

	records, err := h.service.Submissions(r.Context(), f)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Row(exportDateFormat)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", config.ExportFileName))

	if err := exporter.WriteCSV(w, domain.MergedColumns(), rows); err != nil {
		// Headers are already sent; log rather than re-render.
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

// Reload handles POST /reload: explicit cache invalidation.
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate()
	render.JSON(w, r, map[string]interface{}{"status": "success"})
}
