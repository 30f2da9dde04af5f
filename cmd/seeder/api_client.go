package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dom/cv-builder-api/internal/domain"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type loginResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Person is the profile of a fake account.
type Person struct {
	FirstName string
	LastName  string
	Title     string
	Summary   string
	Email     string
}

const seedPassword = "seed123"

// RegisterUser creates an account and logs it in
func (c *APIClient) RegisterUser(p Person) (*domain.User, string, error) {
	body := map[string]string{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"title":     p.Title,
		"summary":   p.Summary,
		"email":     p.Email,
		"password":  seedPassword,
	}

	resp, err := c.send(http.MethodPost, "/auth/register", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, "", statusError("register", resp)
	}

	return c.Login(p.Email, seedPassword)
}

func (c *APIClient) Login(email, password string) (*domain.User, string, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.send(http.MethodPost, "/auth/login", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", statusError("login", resp)
	}

	var result loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}
	return &result.User, result.Token, nil
}

func (c *APIClient) AddExperience(token string, userID, company, role, start, end, description string) error {
	body := map[string]string{
		"userId":      userID,
		"companyName": company,
		"role":        role,
		"startDate":   start,
		"endDate":     end,
		"description": description,
	}
	return c.expectCreated("add experience", "/experience", body, token)
}

func (c *APIClient) AddProject(token string, userID, description string) error {
	body := map[string]string{
		"userId":      userID,
		"description": description,
	}
	return c.expectCreated("add project", "/projects", body, token)
}

func (c *APIClient) AddFeedback(token string, fromUser, toUser, company, content string) error {
	body := map[string]string{
		"fromUser":    fromUser,
		"toUser":      toUser,
		"companyName": company,
		"content":     content,
	}
	return c.expectCreated("add feedback", "/feedback", body, token)
}

// GetCV fetches the aggregated CV of a user
func (c *APIClient) GetCV(token, userID string) (*domain.CVDocument, error) {
	resp, err := c.send(http.MethodGet, "/user/"+userID+"/cv", nil, token)
	if err != nil {
		return nil, fmt.Errorf("cv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get cv", resp)
	}

	var doc domain.CVDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &doc, nil
}

// HTTP helpers

func (c *APIClient) expectCreated(op, path string, body interface{}, token string) error {
	resp, err := c.send(http.MethodPost, path, body, token)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError(op, resp)
	}
	return nil
}

func (c *APIClient) send(method, path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func statusError(op string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s failed (status %d): %s", op, resp.StatusCode, bytes.TrimSpace(bodyBytes))
}
