// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/pkg/pointer"
)

func newStatusCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <submissionId>",
		Short: "Show the public status of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			view, err := global.session().FetchStatus(command.Context(), args[0])
			if err != nil {
				return err
			}

			out := command.OutOrStdout()
			fmt.Fprintf(out, "%s\n", view.SubmissionID)
			fmt.Fprintf(out, "  category:  %s\n", view.AwardCategory)
			fmt.Fprintf(out, "  status:    %s\n", view.Status)
			fmt.Fprintf(out, "  review:    %s\n", view.ReviewStatus)
			fmt.Fprintf(out, "  submitted: %s\n", view.SubmittedAt.Format("2006-01-02 15:04 MST"))
			fmt.Fprintf(out, "  %s\n", view.Message)
			return nil
		},
	}
}

func newReviewCommand(global *globalOptions) *cobra.Command {
	var (
		status string
		notes  string
		score  int
	)

	command := &cobra.Command{
		Use:   "review <submissionId>",
		Short: "Record a review verdict (approved, rejected, needs-info)",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			session, err := global.reviewerSession()
			if err != nil {
				return err
			}

			input := nomination.ReviewInput{Status: nomination.ReviewStatus(status)}
			if command.Flags().Changed("notes") {
				input.Notes = pointer.To(notes)
			}
			if command.Flags().Changed("score") {
				input.Score = pointer.To(score)
			}

			updated, err := session.ReviewNomination(command.Context(), args[0], input)
			if err != nil {
				return err
			}

			fmt.Fprintf(command.OutOrStdout(), "%s review is now %s\n", updated.SubmissionID, updated.AdminReview.Status)
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVar(&status, "status", "", "review verdict")
	flags.StringVar(&notes, "notes", "", "reviewer notes")
	flags.IntVar(&score, "score", 0, "score from 0 to 100")
	_ = command.MarkFlagRequired("status")

	return command
}

func newMoveCommand(global *globalOptions) *cobra.Command {
	var to string

	command := &cobra.Command{
		Use:   "move <submissionId>",
		Short: "Move a nomination to another status (under-review, finalist, winner, rejected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			session, err := global.reviewerSession()
			if err != nil {
				return err
			}

			updated, err := session.UpdateStatus(command.Context(), args[0], nomination.Status(to))
			if err != nil {
				return err
			}

			fmt.Fprintf(command.OutOrStdout(), "%s is now %s\n", updated.SubmissionID, updated.Status)
			return nil
		},
	}

	command.Flags().StringVar(&to, "to", "", "target status")
	_ = command.MarkFlagRequired("to")

	return command
}
