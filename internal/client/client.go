// Package client talks to the electricity backend's REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"CapIot.energyportal/internal/models"
	"CapIot.energyportal/internal/usage"
)

// Client wraps the backend's /auth and /electricity endpoints.
type Client struct {
	rest *resty.Client
}

// New creates a Client for baseURL, e.g. http://localhost:8000.
func New(baseURL string) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest}
}

// upstreamError is the error body shape the backend returns.
type upstreamError struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
}

func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new user. The confirmation field is not forwarded.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) error {
	req.ConfirmPassword = ""
	return c.do(ctx, http.MethodPost, "/auth/signup", nil, req, nil)
}

// Bill fetches the current bill of username.
func (c *Client) Bill(ctx context.Context, username string) (*models.BillData, error) {
	var out models.BillData
	err := c.do(ctx, http.MethodGet, "/electricity/bill/{username}",
		map[string]string{"username": username}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Payments fetches the payment history of username.
func (c *Client) Payments(ctx context.Context, username string) (*models.PaymentHistory, error) {
	var out models.PaymentHistory
	err := c.do(ctx, http.MethodGet, "/electricity/payments/{username}",
		map[string]string{"username": username}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConnectionStatus(ctx context.Context) (*models.ConnectionStatusResponse, error) {
	var out models.ConnectionStatusResponse
	if err := c.do(ctx, http.MethodGet, "/electricity/connection-status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetConnectionStatus(ctx context.Context, req models.ConnectionStatusRequest) error {
	return c.do(ctx, http.MethodPost, "/electricity/connection-status", nil, req, nil)
}

// Usage fetches the backend-aggregated chart for sel: minute points of an
// hour, hour points of a day, day points of a month or month points of a year.
func (c *Client) Usage(ctx context.Context, productID string, sel usage.Selection) (*models.ChartData, error) {
	path, params, err := UsagePath(productID, sel)
	if err != nil {
		return nil, models.NewAPIError(models.ErrorCodeMissingParameter, err.Error(), sel.Missing(), http.StatusBadRequest)
	}
	var out models.ChartData
	if err := c.do(ctx, http.MethodGet, path, params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UsagePath maps a selection to its backend endpoint template and params.
func UsagePath(productID string, sel usage.Selection) (string, map[string]string, error) {
	if productID == "" {
		return "", nil, fmt.Errorf("product id is required")
	}
	if missing := sel.Missing(); len(missing) > 0 {
		return "", nil, fmt.Errorf("selection is missing %s", strings.Join(missing, ", "))
	}
	params := map[string]string{"pid": productID}
	switch sel.Granularity {
	case usage.Hourly:
		params["date"] = sel.Date()
		params["hour"] = sel.Hour
		return "/electricity/minutely/{pid}/{date}/{hour}", params, nil
	case usage.Daily:
		params["date"] = sel.Date()
		return "/electricity/hourly/{pid}/{date}", params, nil
	case usage.Monthly:
		params["month"] = sel.Year + "-" + sel.Month
		return "/electricity/daily/{pid}/{month}", params, nil
	case usage.Yearly:
		params["year"] = sel.Year
		return "/electricity/monthly/{pid}/{year}", params, nil
	}
	return "", nil, fmt.Errorf("unknown granularity %q", sel.Granularity)
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, result any) error {
	req := c.rest.R().SetContext(ctx)
	if params != nil {
		req.SetPathParams(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		log.Printf("Error calling backend %s %s: %v", method, path, err)
		return models.NewAPIError(models.ErrorCodeBadGateway, fmt.Sprintf("backend unreachable: %v", err), nil, http.StatusBadGateway)
	}
	if resp.IsError() {
		log.Printf("Backend %s %s returned %s", method, resp.Request.URL, resp.Status())
		return upstreamAPIError(resp)
	}
	return nil
}

// upstreamAPIError keeps the backend's status so callers can relay it.
func upstreamAPIError(resp *resty.Response) models.APIError {
	msg := strings.TrimSpace(string(resp.Body()))
	var body upstreamError
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch d := body.Detail.(type) {
		case string:
			msg = d
		default:
			if body.Message != "" {
				msg = body.Message
			}
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}

	code := models.ErrorCodeUpstreamFailed
	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		code = models.ErrorCodeUnauthorized
	case http.StatusNotFound:
		code = models.ErrorCodeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = models.ErrorCodeBadRequest
	case http.StatusConflict:
		code = models.ErrorCodeConflict
	}
	return models.NewAPIError(code, msg, nil, resp.StatusCode())
}
