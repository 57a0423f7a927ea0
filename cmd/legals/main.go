// Command legals is a terminal client for the legal query assistant.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/wolfman30/legals-assistant/internal/analysis"
	appconfig "github.com/wolfman30/legals-assistant/internal/config"
	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/session"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	var (
		flagLang    string
		flagBaseURL string
		flagNoColor bool
	)
	flag.StringVar(&flagLang, "lang", cfg.DefaultLanguage, "Display language: en or hi")
	flag.StringVar(&flagBaseURL, "api", cfg.AnalysisBaseURL, "Analysis service base URL")
	flag.BoolVar(&flagNoColor, "no-color", false, "Disable coloured output")
	flag.Parse()

	if flagNoColor {
		color.NoColor = true
	}

	lang, err := i18n.ParseLanguage(flagLang)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Records go to LOG_FILE only so they never interleave with the conversation.
	logger := logging.NewWithOptions(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: io.Discard,
		File:   cfg.LogFile,
	})

	client := analysis.NewClient(analysis.Config{
		BaseURL: flagBaseURL,
		Timeout: cfg.AnalysisTimeout,
		Logger:  logger,
	})
	mgr := session.NewManager(client, session.Options{Language: lang, Logger: logger})

	r := newREPL(mgr, os.Stdin, color.Output, cfg.MaxQueryLength)
	if err := r.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
