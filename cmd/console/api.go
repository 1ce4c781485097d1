package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/internal/handlers"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/game"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status        int
	Code          string
	Message       string
	Notifications []game.Notification
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Message
	}
	return fmt.Sprintf("API returned status %d: %s", e.Status, e.Message)
}

// apiClient talks to the game API on behalf of one session.
type apiClient struct {
	client  *http.Client
	baseURL string
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func (a *apiClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return &APIError{Status: resp.StatusCode, Message: string(data)}
		}
		return &APIError{
			Status:        resp.StatusCode,
			Code:          errorResp.Code,
			Message:       errorResp.Error,
			Notifications: errorResp.Notifications,
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// getCatalog fetches the static content and indexes it for room controllers.
func (a *apiClient) getCatalog() (*catalog.Catalog, []string, error) {
	var resp handlers.CatalogResponse
	if err := a.do(http.MethodGet, "/v1/catalog", nil, http.StatusOK, &resp); err != nil {
		return nil, nil, err
	}
	cat := catalog.New(resp.Clues, nil, nil, resp.Rooms, nil, nil, nil)
	return cat, resp.Characters, nil
}

func (a *apiClient) createSession() (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	if err := a.do(http.MethodPost, "/v1/sessions", nil, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *apiClient) getSession(id uuid.UUID) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	if err := a.do(http.MethodGet, "/v1/sessions/"+id.String(), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *apiClient) clearSave(id uuid.UUID) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	if err := a.do(http.MethodDelete, "/v1/sessions/"+id.String(), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *apiClient) act(id uuid.UUID, req handlers.ActionRequest) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	if err := a.do(http.MethodPost, "/v1/sessions/"+id.String()+"/actions", req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
