package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/config"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/internal/model"
	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/pkg/reqctx"
)

// httpClient is the HTTP implementation of Client.
type httpClient struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	maxRetries uint
}

// New creates a Client from config.
func New(cfg config.UpstreamConfig) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &httpClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		http:       &http.Client{Timeout: timeout},
		maxRetries: uint(retries),
	}
}

// ---------------------------------------------------------------------------
// Directory
// ---------------------------------------------------------------------------

func (c *httpClient) ListBranches(ctx context.Context) ([]model.Branch, error) {
	var resp struct {
		Branches []model.Branch `json:"branches"`
	}
	if err := c.getRetry(ctx, "/branches", nil, &resp); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return resp.Branches, nil
}

func (c *httpClient) ListDoctors(ctx context.Context, branchID string) ([]model.Doctor, error) {
	q := url.Values{}
	if branchID != "" {
		q.Set("branch_id", branchID)
	}
	var resp struct {
		Doctors []model.Doctor `json:"doctors"`
	}
	if err := c.getRetry(ctx, "/doctors", q, &resp); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return resp.Doctors, nil
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func (c *httpClient) ListAppointments(ctx context.Context, params ListAppointmentsParams) (*AppointmentPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("per_page", strconv.Itoa(params.PerPage))
	setIfPresent(q, "date", params.Date)
	setIfPresent(q, "start_date", params.StartDate)
	setIfPresent(q, "end_date", params.EndDate)
	setIfPresent(q, "branch_id", params.BranchID)
	setIfPresent(q, "status", params.Status)
	setIfPresent(q, "doctor_id", params.DoctorID)

	var resp struct {
		Appointments []model.Appointment `json:"appointments"`
		Pagination   struct {
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	if err := c.getRetry(ctx, "/appointments", q, &resp); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return &AppointmentPage{
		Appointments: resp.Appointments,
		TotalPages:   resp.Pagination.TotalPages,
	}, nil
}

func (c *httpClient) GetAvailableSlots(ctx context.Context, doctorID, date, branchID string) ([]model.Slot, error) {
	q := url.Values{}
	q.Set("doctor_id", doctorID)
	q.Set("date", date)
	setIfPresent(q, "branch_id", branchID)

	var resp struct {
		Slots []model.Slot `json:"slots"`
	}
	if err := c.getRetry(ctx, "/appointments/available-slots", q, &resp); err != nil {
		return nil, fmt.Errorf("get available slots: %w", err)
	}
	return resp.Slots, nil
}

func (c *httpClient) SearchPatients(ctx context.Context, query, branchID string) ([]model.PatientCandidate, error) {
	q := url.Values{}
	q.Set("q", query)
	setIfPresent(q, "branch_id", branchID)

	var resp struct {
		Patients []model.PatientCandidate `json:"patients"`
	}
	if err := c.getRetry(ctx, "/patients/search", q, &resp); err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return resp.Patients, nil
}

func (c *httpClient) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*BookingResult, error) {
	path := "/appointments"
	if req.NewPatient != nil {
		path = "/appointments/with-patient"
	}
	var result BookingResult
	if err := c.do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &result, nil
}

func (c *httpClient) RescheduleAppointment(ctx context.Context, appointmentID string, req RescheduleRequest) error {
	path := "/appointments/" + url.PathEscape(appointmentID) + "/reschedule"
	if err := c.do(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("reschedule appointment: %w", err)
	}
	return nil
}

func (c *httpClient) CancelAppointment(ctx context.Context, appointmentID string, req CancelRequest) error {
	path := "/appointments/" + url.PathEscape(appointmentID) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

func (c *httpClient) ListSessions(ctx context.Context, params ListSessionsParams) ([]model.Session, error) {
	q := url.Values{}
	setIfPresent(q, "session_date", params.SessionDate)
	setIfPresent(q, "branch_id", params.BranchID)
	setIfPresent(q, "doctor_id", params.DoctorID)

	var resp struct {
		Sessions []model.Session `json:"sessions"`
	}
	if err := c.getRetry(ctx, "/sessions", q, &resp); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return resp.Sessions, nil
}

func (c *httpClient) DeleteSession(ctx context.Context, sessionID string) error {
	path := "/sessions/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// getRetry performs an idempotent GET with bounded exponential backoff.
// Mutating calls never go through here.
func (c *httpClient) getRetry(ctx context.Context, path string, q url.Values, out any) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.get(ctx, path, q, out)
		if err != nil {
			var apiErr *APIError
			// 4xx responses are stable; retrying cannot help.
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				return struct{}{}, backoff.Permanent(err)
			}
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("upstream retry",
				"path", path,
				"request_id", reqctx.RequestID(ctx),
				"backoff", next,
				"error", err,
			)
		}),
	)
	return err
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.send(req, out)
}

func (c *httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.send(req, out)
}

func (c *httpClient) send(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	// Forward the console request id so backend logs line up with ours.
	if rid := reqctx.RequestID(req.Context()); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return c.errorFrom(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFrom maps an error response to a sentinel where the status is
// unambiguous, always preserving the backend-provided message.
func (c *httpClient) errorFrom(res *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(res.Body).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	apiErr := &APIError{StatusCode: res.StatusCode, Message: msg}

	switch res.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrSlotTaken, apiErr)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	default:
		return apiErr
	}
}

func setIfPresent(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}
