package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/internal/handlers"
)

type ConsoleConfig struct {
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	SessionID  string        `env:"SESSION_ID"` // Resume this save instead of starting a new one
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
}

func main() {
	var cfg ConsoleConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	api := &apiClient{client: client, baseURL: cfg.APIBaseURL}

	cat, characters, err := api.getCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	resp, err := openSession(api, cfg.SessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session: %v\n", err)
		os.Exit(1)
	}

	ui := NewConsoleUI(api, cat, characters, resp)
	p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Your save is kept. Resume with SESSION_ID=%s\n", resp.View.ID)
}

// openSession resumes the given save, or starts a new one when id is empty.
func openSession(api *apiClient, id string) (*handlers.ActionResponse, error) {
	if id == "" {
		return api.createSession()
	}
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_ID: %w", err)
	}
	return api.getSession(sessionID)
}
