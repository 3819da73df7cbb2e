package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"sportsdesk/internal/adapters/bookingapi"
	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/application/orchestrators"
	"sportsdesk/internal/application/projections"
	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/inventory"
	"sportsdesk/internal/domain/metrics"
	"sportsdesk/internal/domain/registration"
)

// flashCookie carries a success message across the post/redirect/get hop.
const flashCookie = "sportsdesk_flash"

// perfWindow is how far back /api/perf aggregates.
const perfWindow = time.Hour

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func wantsJSON(r *http.Request) bool {
	return isJSONRequest(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// dashboardData is the view model of the dashboard template.
type dashboardData struct {
	Slots             []ui.Slot
	Events            []inventory.Event
	Sports            []string
	Modal             ui.Modal
	UpdatedAt         time.Time
	Flash             string
	Booking           orchestrators.BookingForm
	BookingError      string
	Registration      orchestrators.RegistrationForm
	RegistrationError string
	CSRFField         template.HTML
}

func (s *Server) dashboard(r *http.Request) dashboardData {
	board := s.desk.Board()
	return dashboardData{
		Slots:     board.Slots(),
		Events:    s.desk.Events(),
		Sports:    s.sports,
		Modal:     board.Modal(),
		UpdatedAt: board.UpdatedAt(),
		CSRFField: csrf.TemplateField(r),
	}
}

func renderTemplate(w http.ResponseWriter, status int, name string, data any) {
	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(buf.String()))
}

// handleDashboard renders the desk.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := s.dashboard(r)
	if c, err := r.Cookie(flashCookie); err == nil {
		if msg, err := url.QueryUnescape(c.Value); err == nil {
			data.Flash = msg
		}
		http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	}
	renderTemplate(w, http.StatusOK, "dashboard.html", data)
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// bookingStatus maps a booking outcome to an HTTP status.
func bookingStatus(out orchestrators.Outcome) int {
	var remote *bookingapi.RemoteError
	switch {
	case out.OK:
		return http.StatusCreated
	case errors.Is(out.Err, booking.ErrFieldsRequired):
		return http.StatusUnprocessableEntity
	case errors.As(out.Err, &remote):
		return http.StatusBadGateway
	case errors.Is(out.Err, bookingapi.ErrUnreachable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// registrationStatus maps a registration outcome to an HTTP status.
func registrationStatus(out orchestrators.Outcome) int {
	switch {
	case out.OK:
		return http.StatusCreated
	case errors.Is(out.Err, registration.ErrMissingFields), errors.Is(out.Err, registration.ErrInvalidPhone):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleSubmitBooking accepts the booking form (urlencoded or JSON).
func (s *Server) handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	var form orchestrators.BookingForm
	if isJSONRequest(r) {
		if err := strictDecode(r, &form); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		form = orchestrators.BookingForm{
			Sport: r.PostFormValue("sport"),
			Date:  r.PostFormValue("date"),
			Time:  r.PostFormValue("time"),
		}
	}

	out := s.desk.SubmitBooking(r.Context(), form)
	status := bookingStatus(out)
	if isJSONRequest(r) {
		writeJSON(w, status, out)
		return
	}
	if out.OK {
		redirectWithFlash(w, r, out.Message)
		return
	}
	data := s.dashboard(r)
	data.Booking = form
	data.BookingError = out.Message
	renderTemplate(w, status, "dashboard.html", data)
}

// handleSubmitRegistration accepts the event registration form (urlencoded or JSON).
func (s *Server) handleSubmitRegistration(w http.ResponseWriter, r *http.Request) {
	var form orchestrators.RegistrationForm
	if isJSONRequest(r) {
		if err := strictDecode(r, &form); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		form = orchestrators.RegistrationForm{
			Event: r.PostFormValue("event"),
			Name:  r.PostFormValue("name"),
			Email: r.PostFormValue("email"),
			Phone: r.PostFormValue("phone"),
		}
	}

	out := s.desk.SubmitRegistration(r.Context(), form)
	status := registrationStatus(out)
	if status == http.StatusInternalServerError {
		slog.Error("registration_failed", "error", out.Err)
	}
	if isJSONRequest(r) {
		writeJSON(w, status, out)
		return
	}
	if out.OK {
		redirectWithFlash(w, r, out.Message)
		return
	}
	data := s.dashboard(r)
	data.Registration = form
	data.RegistrationError = out.Message
	renderTemplate(w, status, "dashboard.html", data)
}

// detailedReportResponse is the JSON form of the detailed report.
type detailedReportResponse struct {
	Title        string               `json:"title"`
	SportCounts  []metrics.SportCount `json:"sportCounts"`
	Events       []inventory.Event    `json:"events"`
	Participants []participantJSON    `json:"participants"`
	HTML         template.HTML        `json:"html"`
}

type participantJSON struct {
	Name  string `json:"name"`
	Event string `json:"event"`
}

// handleDetailedReport builds the detailed report from fresh data and opens it on the board.
func (s *Server) handleDetailedReport(w http.ResponseWriter, r *http.Request) {
	report, html, err := s.desk.ShowDetailedReport(r.Context())
	if err != nil {
		msg := bookingapi.UserMessage(err)
		if wantsJSON(r) {
			writeJSONError(w, http.StatusBadGateway, msg)
			return
		}
		http.Error(w, msg, http.StatusBadGateway)
		return
	}

	if wantsJSON(r) {
		resp := detailedReportResponse{
			Title:        projections.DetailedReportTitle,
			SportCounts:  report.SportCounts,
			Events:       report.Events,
			Participants: make([]participantJSON, 0, len(report.Participants)),
			HTML:         html,
		}
		for _, p := range report.Participants {
			resp.Participants = append(resp.Participants, participantJSON{Name: p.Name, Event: p.Event})
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	renderTemplate(w, http.StatusOK, "report.html", s.desk.Board().Modal())
}

// handleCloseReport dismisses the report modal.
func (s *Server) handleCloseReport(w http.ResponseWriter, r *http.Request) {
	s.desk.Board().CloseModal()
	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// metricsResponse is the JSON form of the board.
type metricsResponse struct {
	Generation uint64           `json:"generation"`
	UpdatedAt  *time.Time       `json:"updatedAt,omitempty"`
	Metrics    *metrics.Metrics `json:"metrics,omitempty"`
	Slots      []ui.Slot        `json:"slots"`
}

// handleMetrics returns the board as last projected.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	resp := metricsResponse{Slots: s.desk.Board().Slots()}
	if m, gen, at, ok := s.desk.Refresher().Last(); ok {
		resp.Generation = gen
		resp.UpdatedAt = &at
		resp.Metrics = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

// refreshResponse is the JSON form of a refresh cycle.
type refreshResponse struct {
	orchestrators.RefreshResult
	Error string `json:"error,omitempty"`
}

// handleRefresh runs one refresh cycle.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res := s.desk.Refresh(r.Context())
	resp := refreshResponse{RefreshResult: res}
	status := http.StatusOK
	if res.Err != nil {
		resp.Error = bookingapi.UserMessage(res.Err)
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

// handlePerf returns request, query and refresh timings for the last hour.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		writeJSONError(w, http.StatusNotFound, "perf collection disabled")
		return
	}
	writeJSON(w, http.StatusOK, s.collector.Snapshot(time.Now().Add(-perfWindow), 10))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
