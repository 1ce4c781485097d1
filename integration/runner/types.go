package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/internal/handlers"
)

// ResetSessionAction clears the save instead of posting an action.
const ResetSessionAction = "RESET_SESSION"

// TestSuite defines a complete integration playthrough.
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `json:"name"`
	Steps []TestStep `json:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one action posted to the session and its expected outcome.
// Use action "RESET_SESSION" to clear the save.
type TestStep struct {
	Name         string                 `json:"name,omitempty"`
	Request      handlers.ActionRequest `json:"request"`
	Expectations Expectations           `json:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	// HTTP outcome. A step that expects a non-200 status is a rejected action.
	HTTPStatus *int    `json:"http_status,omitempty"`
	ErrorCode  *string `json:"error_code,omitempty"`

	// View properties - aligned with pkg/game/view.go
	Status          *string         `json:"status,omitempty"`
	Room            *string         `json:"room,omitempty"`
	Inventory       []string        `json:"inventory,omitempty"`      // Full inventory contents (order independent)
	UnlockedRooms   []string        `json:"unlocked_rooms,omitempty"` // Must all be unlocked
	LockedRooms     []string        `json:"locked_rooms,omitempty"`   // Must all still be locked
	Truth1          []string        `json:"truth1,omitempty"`         // Must all be revealed
	Truth2          []string        `json:"truth2,omitempty"`         // Must all be revealed
	Slots           []string        `json:"slots,omitempty"`          // Exact slot contents, "" for empty
	Flags           map[string]bool `json:"flags,omitempty"`
	Offers          []string        `json:"offers,omitempty"`
	EndingAvailable *bool           `json:"ending_available,omitempty"`
	Ending          *string         `json:"ending,omitempty"`

	// Response analysis
	RevealTitle          *string  `json:"reveal_title,omitempty"`
	NotificationContains []string `json:"notification_contains,omitempty"`
	MinChatLength        *int     `json:"min_chat_length,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	IsReset  bool // True if this was a RESET_SESSION step (should not count toward pass/fail metrics)
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Session  uuid.UUID // ID of the session used for this test
}
