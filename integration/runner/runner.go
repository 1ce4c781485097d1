package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/guining-hotel/internal/handlers"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running guining-hotel API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite against a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	created, err := r.createSession(ctx)
	if err != nil {
		result.Error = fmt.Errorf("failed to create session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Session = created.View.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.executeStep(ctx, result.Session, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// executeStep posts one action (or clears the save) and checks expectations
func (r *Runner) executeStep(ctx context.Context, id uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	var (
		status int
		resp   handlers.ActionResponse
		apiErr handlers.ErrorResponse
		err    error
	)
	if step.Request.Action == ResetSessionAction {
		result.IsReset = true
		status, err = r.call(ctx, http.MethodDelete, "/v1/sessions/"+id.String(), nil, &resp, &apiErr)
	} else {
		status, err = r.call(ctx, http.MethodPost, "/v1/sessions/"+id.String()+"/actions", step.Request, &resp, &apiErr)
	}
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	// Rejected actions return no view; compare against the stored one.
	if status != http.StatusOK {
		current, err := r.getSession(ctx, id)
		if err != nil {
			result.Error = fmt.Errorf("failed to read session after rejected action: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		resp.View = current.View
		resp.Notifications = apiErr.Notifications
	}

	if err := checkExpectations(step.Expectations, status, resp, apiErr); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) createSession(ctx context.Context) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	var apiErr handlers.ErrorResponse
	status, err := r.call(ctx, http.MethodPost, "/v1/sessions", nil, &resp, &apiErr)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("create session returned %d: %s", status, apiErr.Error)
	}
	return &resp, nil
}

func (r *Runner) getSession(ctx context.Context, id uuid.UUID) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	var apiErr handlers.ErrorResponse
	status, err := r.call(ctx, http.MethodGet, "/v1/sessions/"+id.String(), nil, &resp, &apiErr)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get session returned %d: %s", status, apiErr.Error)
	}
	return &resp, nil
}

// call sends one request and decodes the body into out on 2xx or into
// apiErr otherwise.
func (r *Runner) call(ctx context.Context, method, path string, body any, out any, apiErr *handlers.ErrorResponse) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, apiErr); err != nil {
		return resp.StatusCode, fmt.Errorf("status %d with undecodable body: %s", resp.StatusCode, string(data))
	}
	return resp.StatusCode, nil
}

// checkExpectations validates one step's outcome
func checkExpectations(exp Expectations, status int, resp handlers.ActionResponse, apiErr handlers.ErrorResponse) error {
	wantStatus := http.StatusOK
	if exp.HTTPStatus != nil {
		wantStatus = *exp.HTTPStatus
	}
	if status != wantStatus {
		return fmt.Errorf("expected status %d, got %d (%s)", wantStatus, status, apiErr.Error)
	}

	if exp.ErrorCode != nil && apiErr.Code != *exp.ErrorCode {
		return fmt.Errorf("expected error code %s, got %q", *exp.ErrorCode, apiErr.Code)
	}

	v := resp.View
	if exp.Status != nil && string(v.Status) != *exp.Status {
		return fmt.Errorf("expected status %s, got %s", *exp.Status, v.Status)
	}

	if exp.Room != nil && v.Room != *exp.Room {
		return fmt.Errorf("expected room %q, got %q", *exp.Room, v.Room)
	}

	// Full inventory check (order independent)
	if len(exp.Inventory) > 0 {
		actual := v.Inventory.IDs()
		for _, id := range exp.Inventory {
			if !slices.Contains(actual, id) {
				return fmt.Errorf("expected inventory to contain '%s', but it's missing. Actual inventory: %v", id, actual)
			}
		}
		for _, id := range actual {
			if !slices.Contains(exp.Inventory, id) {
				return fmt.Errorf("inventory contains unexpected item '%s'. Expected inventory: %v, Actual: %v", id, exp.Inventory, actual)
			}
		}
	}

	if !v.UnlockedRooms.ContainsAll(exp.UnlockedRooms) {
		return fmt.Errorf("expected unlocked rooms %v, got %v", exp.UnlockedRooms, v.UnlockedRooms)
	}
	for _, id := range exp.LockedRooms {
		if v.UnlockedRooms.Has(id) {
			return fmt.Errorf("expected room %s to be locked, got unlocked rooms %v", id, v.UnlockedRooms)
		}
	}
	if !v.Truths.Truth1.ContainsAll(exp.Truth1) {
		return fmt.Errorf("expected truth1 for %v, got %v", exp.Truth1, v.Truths.Truth1)
	}
	if !v.Truths.Truth2.ContainsAll(exp.Truth2) {
		return fmt.Errorf("expected truth2 for %v, got %v", exp.Truth2, v.Truths.Truth2)
	}
	if !v.Offers.ContainsAll(exp.Offers) {
		return fmt.Errorf("expected offers %v, got %v", exp.Offers, v.Offers)
	}

	if len(exp.Slots) > 0 && !slices.Equal(exp.Slots, v.Slots[:]) {
		return fmt.Errorf("expected slots %q, got %q", exp.Slots, v.Slots)
	}

	for name, want := range exp.Flags {
		if v.Flags[name] != want {
			return fmt.Errorf("expected flag %s to be %t", name, want)
		}
	}

	if exp.EndingAvailable != nil && v.EndingAvailable != *exp.EndingAvailable {
		return fmt.Errorf("expected ending_available to be %t, got %t", *exp.EndingAvailable, v.EndingAvailable)
	}
	if exp.Ending != nil && v.Ending != *exp.Ending {
		return fmt.Errorf("expected ending %q, got %q", *exp.Ending, v.Ending)
	}

	if exp.RevealTitle != nil {
		if resp.Reveal == nil {
			return fmt.Errorf("expected reveal %q, got none", *exp.RevealTitle)
		}
		if resp.Reveal.Title != *exp.RevealTitle {
			return fmt.Errorf("expected reveal %q, got %q", *exp.RevealTitle, resp.Reveal.Title)
		}
	}

	for _, want := range exp.NotificationContains {
		found := false
		for _, n := range resp.Notifications {
			if strings.Contains(strings.ToLower(n.Text), strings.ToLower(want)) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected a notification containing '%s', got %v", want, resp.Notifications)
		}
	}

	if exp.MinChatLength != nil && len(v.Chat) < *exp.MinChatLength {
		return fmt.Errorf("expected at least %d chat messages, got %d", *exp.MinChatLength, len(v.Chat))
	}

	return nil
}
