package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/nhle/mailpane/internal/app"
	"github.com/nhle/mailpane/internal/model"
)

func main() {
	configPath := flag.StringP("config", "c", model.DefaultConfigPath(), "path to config file")
	baseURL := flag.String("api", "", "mail API base URL (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}

	f, err := tea.LogToFile(cfg.Log.File, "mailpane")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	m := app.New(cfg, app.NewClient(cfg), app.Options{ConfigPath: *configPath})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
