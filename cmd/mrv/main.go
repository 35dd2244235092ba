package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"medreview/pkg/audit"
	"medreview/pkg/chat"
	"medreview/pkg/config"
	"medreview/pkg/inbox"
	"medreview/pkg/session"
	"medreview/pkg/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default config.yaml or $MRV_CONFIG)")
	userID := flag.String("user", "", "Reviewer user ID (overrides config)")
	apiBase := flag.String("api", "", "Report store base URL (overrides config)")
	help := flag.Bool("help", false, "Show help")
	version := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: mrv [options]")
		fmt.Println("\nA clinician review console for AI-generated medical reports.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *version {
		fmt.Println("mrv version 0.1.0")
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *userID != "" {
		cfg.UserID = *userID
		if cfg.ReviewerName == "" {
			cfg.ReviewerName = *userID
		}
	}
	if *apiBase != "" {
		cfg.APIBaseURL = *apiBase
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Set api_base_url and user_id in config.yaml, or pass -api and -user.")
		os.Exit(1)
	}

	client := inbox.NewClient(cfg.APIBaseURL, cfg.RequestTimeout())
	repo := inbox.NewRepository()
	sess := session.New(client, cfg.UserID, cfg.PollInterval())

	// Audit failures should not keep a clinician from reviewing.
	var auditor *audit.Manager
	if a, err := audit.NewManager(cfg.AuditDBPath); err != nil {
		log.Printf("Warning: audit trail unavailable: %v", err)
	} else {
		auditor = a
		if err := auditor.StartSitting(cfg.ReviewerName); err != nil {
			log.Printf("Warning: could not start audit sitting: %v", err)
		}
		defer auditor.Close()
	}

	var asker chat.Asker
	if cfg.ChatEnabled {
		asker = chat.NewClient(cfg.APIBaseURL, chat.DefaultTimeout)
	}

	sess.Start()
	defer sess.Stop()

	m := ui.NewDashboard(repo, sess, client, auditor, asker, cfg.ReviewerName)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running review console: %v\n", err)
		os.Exit(1)
	}
}
