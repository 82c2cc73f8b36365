// Package api is the typed client for the MOMU REST API. It owns the error
// taxonomy, the bearer-token transport and the call metrics; the state
// machines above it never touch HTTP directly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielsouzza/momu-go/internal/credential"
	"github.com/danielsouzza/momu-go/internal/model"
)

// Gateway is the remote-operation boundary consumed by the state machines.
// Tests substitute it with fakes.
type Gateway interface {
	Authenticate(ctx context.Context, email, password, deviceModel string) (string, error)
	FetchProfile(ctx context.Context) (model.Profile, error)
	FetchCatalog(ctx context.Context) (model.Catalog, error)
	FetchDetail(ctx context.Context, assessmentID int) (model.Result, error)
	SwitchRole(ctx context.Context, roleID int) error
	FetchAnswers(ctx context.Context, assessmentID int) ([]model.Answer, error)
	FetchConsolidated(ctx context.Context, courseID, periodID int) (model.ConsolidatedResult, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, creds credential.Store, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &bearerTransport{creds: creds},
		},
		logger: logger,
	}
}

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DeviceModel string `json:"device_model"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *Client) Authenticate(ctx context.Context, email, password, deviceModel string) (string, error) {
	start := time.Now()
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth", loginRequest{Email: email, Password: password, DeviceModel: deviceModel}, &resp)
	if err == nil && resp.AccessToken == "" {
		err = &DataContractError{Reason: "login response missing access_token"}
	}
	observe("authenticate", start, err)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) FetchProfile(ctx context.Context) (model.Profile, error) {
	start := time.Now()
	var profile model.Profile
	err := c.do(ctx, http.MethodGet, "/user", nil, &profile)
	if err == nil && profile.ID == 0 {
		err = &DataContractError{Reason: "user response missing id"}
	}
	observe("fetch_profile", start, err)
	if err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

func (c *Client) FetchCatalog(ctx context.Context) (model.Catalog, error) {
	start := time.Now()
	var catalog model.Catalog
	err := c.do(ctx, http.MethodGet, "/assessments", nil, &catalog)
	observe("fetch_catalog", start, err)
	if err != nil {
		return model.Catalog{}, err
	}
	return catalog, nil
}

func (c *Client) FetchDetail(ctx context.Context, assessmentID int) (model.Result, error) {
	start := time.Now()
	var result model.Result
	err := c.do(ctx, http.MethodGet, "/assessments/"+strconv.Itoa(assessmentID)+"/result", nil, &result)
	if err == nil && len(result.Chart.Labels) != len(result.Chart.Scores) {
		err = &DataContractError{Reason: fmt.Sprintf(
			"chart has %d labels but %d scores", len(result.Chart.Labels), len(result.Chart.Scores))}
	}
	observe("fetch_detail", start, err)
	if err != nil {
		return model.Result{}, err
	}
	return result, nil
}

func (c *Client) SwitchRole(ctx context.Context, roleID int) error {
	start := time.Now()
	err := c.do(ctx, http.MethodPost, "/switch-role/"+strconv.Itoa(roleID), nil, nil)
	observe("switch_role", start, err)
	return err
}

func (c *Client) FetchAnswers(ctx context.Context, assessmentID int) ([]model.Answer, error) {
	start := time.Now()
	var answers []model.Answer
	err := c.do(ctx, http.MethodGet, "/assessments/"+strconv.Itoa(assessmentID)+"/answers", nil, &answers)
	observe("fetch_answers", start, err)
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (c *Client) FetchConsolidated(ctx context.Context, courseID, periodID int) (model.ConsolidatedResult, error) {
	start := time.Now()
	var result model.ConsolidatedResult
	path := fmt.Sprintf("/assessments/course/%d/period/%d/result", courseID, periodID)
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	if err == nil && len(result.Chart.Labels) != len(result.Chart.Scores) {
		err = &DataContractError{Reason: fmt.Sprintf(
			"chart has %d labels but %d scores", len(result.Chart.Labels), len(result.Chart.Scores))}
	}
	observe("fetch_consolidated", start, err)
	if err != nil {
		return model.ConsolidatedResult{}, err
	}
	return result, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api call failed", zap.String("path", path), zap.Error(err))
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var remote errorBody
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, &remote)
		c.logger.Debug("api call rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", remote.Error))
		return &AuthorizationError{Status: resp.StatusCode, Code: remote.Error, Message: remote.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DataContractError{Reason: "malformed response body: " + err.Error()}
	}
	return nil
}
