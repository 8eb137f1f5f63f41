// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/laureate/internal/platform/constants"
	"github.com/taibuivan/laureate/internal/platform/sec"
)

func newTokenCommand() *cobra.Command {
	var (
		privateKeyPath string
		userID         string
		username       string
		role           string
		ttl            time.Duration
	)

	command := &cobra.Command{
		Use:   "token",
		Short: "Mint a reviewer access token (operators only)",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			userRole := sec.UserRole(role)
			if !userRole.Valid() {
				return fmt.Errorf("unknown role %q (use reviewer or admin)", role)
			}

			signer, err := sec.LoadSigner(privateKeyPath, constants.AuthIssuer)
			if err != nil {
				return err
			}

			if username == "" {
				username = userID
			}
			token, err := signer.GenerateAccessToken(userID, username, userRole, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(command.OutOrStdout(), token)
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVar(&privateKeyPath, "private-key", "", "RSA private key (PEM)")
	flags.StringVar(&userID, "user", "", "reviewer ID")
	flags.StringVar(&username, "name", "", "display name (defaults to the ID)")
	flags.StringVar(&role, "role", string(sec.RoleReviewer), "reviewer or admin")
	flags.DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = command.MarkFlagRequired("private-key")
	_ = command.MarkFlagRequired("user")

	return command
}
