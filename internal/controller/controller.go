package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"CapIot.energyportal/internal/models"
	"CapIot.energyportal/internal/repository"
	"CapIot.energyportal/internal/service"
	"CapIot.energyportal/internal/session"
	"CapIot.energyportal/internal/usage"
	"CapIot.energyportal/internal/utils"
	"CapIot.energyportal/internal/validation"
)

// AuthBackend signs users in and up against the backend.
type AuthBackend interface {
	SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error)
	SignUp(ctx context.Context, req models.SignUpRequest) error
}

// Deps are the collaborators a Controller serves from.
type Deps struct {
	Auth    AuthBackend
	Session *session.Store
	Usage   *service.UsageView
	Billing *service.BillingService
	Admin   *service.AdminService
	Clock   *service.Clock
	// Readings is optional; without it meter ingest is not offered.
	Readings repository.ReadingWriter
}

// DashboardController handles the dashboard's HTTP requests.
type DashboardController struct {
	Deps
}

// NewDashboardController creates a new DashboardController.
func NewDashboardController(deps Deps) *DashboardController {
	return &DashboardController{Deps: deps}
}

func (c *DashboardController) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (c *DashboardController) HandleClock(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"now": c.Clock.Now()})
}

// HandleSignIn validates the form, signs in upstream and opens the session.
func (c *DashboardController) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.SignIn(req); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	resp, err := c.Auth.SignIn(r.Context(), req)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Username, err)
		utils.RespondWithErr(w, err)
		return
	}
	c.Session.SignIn(resp.Username, resp.ProductID)
	utils.RespondWithJSON(w, http.StatusOK, c.Session.Current())
}

func (c *DashboardController) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.SignUp(req); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	if err := c.Auth.SignUp(r.Context(), req); err != nil {
		log.Printf("Registration failed for %s: %v", req.Username, err)
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}

func (c *DashboardController) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	c.Session.SignOut()
	utils.RespondWithJSON(w, http.StatusOK, c.Session.Current())
}

func (c *DashboardController) HandleSession(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.Session.Current())
}

func (c *DashboardController) HandleUsageState(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.Usage.State())
}

// HandleUsageSelect applies selector changes to the dashboard's usage view.
func (c *DashboardController) HandleUsageSelect(w http.ResponseWriter, r *http.Request) {
	var change service.SelectionChange
	if !decodeBody(w, r, &change) {
		return
	}
	state, err := c.Usage.Select(change)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, state)
}

// HandleUsageChart computes a chart for the selection in the query string.
func (c *DashboardController) HandleUsageChart(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c.Usage.ChartFor(sel))
}

// HandleUsageOptions lists the selectable years, months, days and hours.
func (c *DashboardController) HandleUsageOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := usage.SelectionFor(usage.Hourly, q.Get("year"), q.Get("month"), q.Get("day"), "")
	utils.RespondWithJSON(w, http.StatusOK, c.Usage.OptionsFor(sel))
}

// HandleUsageRefresh reloads the reading snapshot for the signed-in product.
func (c *DashboardController) HandleUsageRefresh(w http.ResponseWriter, r *http.Request) {
	state, err := c.Usage.Load(r.Context(), c.Session.Current().ProductID)
	switch {
	case errors.Is(err, service.ErrSuperseded):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeConflict, err.Error(), nil, http.StatusConflict))
		return
	case err != nil:
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamFailed, err.Error(), nil, http.StatusBadGateway))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, state)
}

// HandleBackendUsage proxies the backend's own aggregation for the
// signed-in product.
func (c *DashboardController) HandleBackendUsage(w http.ResponseWriter, r *http.Request) {
	current, ok := c.requireSession(w)
	if !ok {
		return
	}
	sel, err := selectionFromQuery(r.URL.Query())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	ch, err := c.Usage.FetchBackend(r.Context(), current.ProductID, sel)
	if errors.Is(err, service.ErrSuperseded) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeConflict, err.Error(), nil, http.StatusConflict))
		return
	}
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	if ch == nil {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"chart": nil, "message": "No data points received"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"chart": ch})
}

// HandleWriteReading stores meter readings posted as a JSON array.
func (c *DashboardController) HandleWriteReading(w http.ResponseWriter, r *http.Request) {
	var readings []models.PowerReading
	if !decodeBody(w, r, &readings) {
		return
	}
	for _, reading := range readings {
		if reading.ProductID == "" {
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMissingParameter, "product_id is required", nil, http.StatusBadRequest))
			return
		}
		if err := c.Readings.WriteReading(r.Context(), reading); err != nil {
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("error processing data: %v", err), nil, http.StatusInternalServerError))
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Readings received and written to InfluxDB"})
}

func (c *DashboardController) HandleBill(w http.ResponseWriter, r *http.Request) {
	current, ok := c.requireSession(w)
	if !ok {
		return
	}
	acc, err := c.Billing.Load(r.Context(), current.Username)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, acc)
}

func (c *DashboardController) HandlePay(w http.ResponseWriter, r *http.Request) {
	current, ok := c.requireSession(w)
	if !ok {
		return
	}
	var details models.PaymentDetails
	if !decodeBody(w, r, &details) {
		return
	}
	acc, err := c.Billing.Pay(r.Context(), current.Username, details)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, acc)
}

func (c *DashboardController) HandleConnections(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Admin.Refresh(r.Context())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

func (c *DashboardController) HandleToggleConnection(w http.ResponseWriter, r *http.Request) {
	var req models.ConnectionStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	summary, err := c.Admin.Toggle(r.Context(), req.ProductID, req.Status)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

func (c *DashboardController) requireSession(w http.ResponseWriter) (models.AuthSession, bool) {
	current := c.Session.Current()
	if !current.IsAuthenticated {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotSignedIn, "sign in first", nil, http.StatusUnauthorized))
		return current, false
	}
	return current, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeBadRequest, "Invalid request payload", err.Error(), http.StatusBadRequest))
		return false
	}
	return true
}

// selectionFromQuery reads granularity, year, month, day and hour, padding
// the date components, and requires whatever the granularity needs.
func selectionFromQuery(q url.Values) (usage.Selection, error) {
	g, err := usage.ParseGranularity(q.Get("granularity"))
	if err != nil {
		return usage.Selection{}, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest)
	}
	sel := usage.SelectionFor(g, q.Get("year"), q.Get("month"), q.Get("day"), q.Get("hour"))
	if missing := sel.Missing(); len(missing) > 0 {
		return sel, models.NewAPIError(models.ErrorCodeMissingParameter,
			fmt.Sprintf("%s required for %s usage", strings.Join(missing, ", "), g), missing, http.StatusBadRequest)
	}
	return sel, nil
}
