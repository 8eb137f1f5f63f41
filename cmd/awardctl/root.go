// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/laureate/internal/client"
)

const defaultAPI = "http://localhost:8080/api/v1"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	api     string
	token   string
	timeout time.Duration
}

func (options *globalOptions) session() client.Session {
	return client.Session{
		BaseURL:    options.api,
		Token:      options.token,
		HTTPClient: &http.Client{Timeout: options.timeout},
	}
}

func (options *globalOptions) reviewerSession() (client.Session, error) {
	if options.token == "" {
		return client.Session{}, errors.New("a reviewer token is required (--token or LAUREATE_TOKEN)")
	}
	return options.session(), nil
}

func newRootCommand() *cobra.Command {
	options := &globalOptions{}

	root := &cobra.Command{
		Use:   "awardctl",
		Short: "Youth awards nomination client",
		Long: `awardctl talks to the Laureate nomination API.
It walks a nomination draft through the seven form steps before submitting it,
looks up submission status and lets reviewers record decisions.`,
		SilenceUsage: true,
	}

	api := os.Getenv("LAUREATE_API")
	if api == "" {
		api = defaultAPI
	}

	flags := root.PersistentFlags()
	flags.StringVar(&options.api, "api", api, "API base URL including the version prefix (env LAUREATE_API)")
	flags.StringVar(&options.token, "token", os.Getenv("LAUREATE_TOKEN"), "reviewer access token (env LAUREATE_TOKEN)")
	flags.DurationVar(&options.timeout, "timeout", 2*time.Minute, "HTTP timeout per request")

	root.AddCommand(
		newSubmitCommand(options),
		newStatusCommand(options),
		newReviewCommand(options),
		newMoveCommand(options),
		newTokenCommand(),
	)
	return root
}
