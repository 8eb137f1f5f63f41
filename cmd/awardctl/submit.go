// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/laureate/internal/client"
	"github.com/taibuivan/laureate/internal/form"
	"github.com/taibuivan/laureate/internal/nomination"
	"github.com/taibuivan/laureate/internal/platform/apperr"
	"github.com/taibuivan/laureate/internal/stage"
)

type submitOptions struct {
	draftPath  string
	sets       []string
	photoPath  string
	docPaths   []string
	previewDir string
}

func newSubmitCommand(global *globalOptions) *cobra.Command {
	options := &submitOptions{}

	command := &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit a nomination draft",
		Long: `Loads a nomination draft (JSON), applies any --set overrides, stages the
photo and supporting documents, checks every form step in order and submits
the nomination.

The first incomplete step is reported with its missing fields; nothing is sent
until all seven steps pass.`,
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return runSubmit(command, global, options)
		},
	}

	flags := command.Flags()
	flags.StringVar(&options.draftPath, "draft", "", "path to the nomination draft JSON")
	flags.StringArrayVar(&options.sets, "set", nil, "override one draft field, e.g. referee.email=grace@example.org (repeatable)")
	flags.StringVar(&options.photoPath, "photo", "", "path to the nominee photo")
	flags.StringArrayVar(&options.docPaths, "doc", nil, "supporting document (repeatable, at most 5)")
	flags.StringVar(&options.previewDir, "preview-dir", "", "keep staged file previews in this directory until submission")
	_ = command.MarkFlagRequired("draft")

	return command
}

func runSubmit(command *cobra.Command, global *globalOptions, options *submitOptions) error {
	out := command.OutOrStdout()

	draft, err := readDraft(options.draftPath)
	if err != nil {
		return err
	}

	store := form.New(nil)
	store.Load(draft)
	if err := applySets(store, options.sets); err != nil {
		return err
	}

	var previews stage.PreviewProvider
	if options.previewDir != "" {
		previews = stage.TempPreviews{Dir: options.previewDir}
	}
	stager := stage.New(previews)
	defer stager.Close()

	coordinator := client.NewCoordinator(store, stager, client.HTTPTransport{Session: global.session()})

	// 1. Files
	if options.photoPath != "" {
		if err := stageFile(coordinator, stage.SlotPhoto, options.photoPath); err != nil {
			return err
		}
	}
	for _, path := range options.docPaths {
		if err := stageFile(coordinator, stage.SlotSupporting, path); err != nil {
			return err
		}
	}

	// 2. Steps
	for {
		step := coordinator.Step()
		if err := coordinator.Advance(); err != nil {
			printFieldErrors(out, err)
			return fmt.Errorf("step %d (%s) is incomplete", step, nomination.StepTitle(step))
		}
		fmt.Fprintf(out, "✓ step %d %s\n", step, nomination.StepTitle(step))
		if step == nomination.StepCount {
			break
		}
	}

	// 3. Submit
	receipt, err := coordinator.Submit(command.Context())
	if err != nil {
		printFieldErrors(out, err)

		var transportErr *client.TransportError
		if errors.As(err, &transportErr) {
			return fmt.Errorf("%w (the draft is unchanged, run the command again to retry)", err)
		}
		return err
	}

	fmt.Fprintf(out, "Submitted %s (status %s)\n", receipt.SubmissionID, receipt.Status)
	if receipt.Storage.Degraded() {
		fmt.Fprintf(out, "warning: stored with degraded durability (primary=%t backup=%t)\n",
			receipt.Storage.Primary, receipt.Storage.Backup)
	}
	return nil
}

func readDraft(path string) (nomination.Draft, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nomination.Draft{}, fmt.Errorf("read draft: %w", err)
	}

	var draft nomination.Draft
	if err := json.Unmarshal(content, &draft); err != nil {
		return nomination.Draft{}, fmt.Errorf("parse draft %s: %w", path, err)
	}
	return draft, nil
}

// applySets writes each path=value override through the form store.
func applySets(store *form.Store, sets []string) error {
	for _, assignment := range sets {
		raw, value, found := strings.Cut(assignment, "=")
		if !found {
			return fmt.Errorf("--set %q: expected path=value", assignment)
		}

		path, err := form.ParsePath(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("--set %q: %w", assignment, err)
		}
		if err := store.SetText(path, value); err != nil {
			return fmt.Errorf("--set %q: %w", assignment, err)
		}
	}
	return nil
}

func stageFile(coordinator *client.Coordinator, slot stage.Slot, path string) error {
	file, err := stage.FromPath(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if _, err := coordinator.Stage(slot, file); err != nil {
		var fileErr *stage.FileError
		if errors.As(err, &fileErr) {
			return fmt.Errorf("%s rejected (%s): %s", file.Name, fileErr.Constraint, fileErr.Message)
		}
		return err
	}
	return nil
}

func printFieldErrors(out io.Writer, err error) {
	var stepErr *client.StepError
	if errors.As(err, &stepErr) {
		for _, field := range stepErr.Fields {
			fmt.Fprintf(out, "  %s: %s\n", field.Field, field.Message)
		}
		return
	}

	if appErr := apperr.As(err); appErr != nil {
		for _, field := range appErr.Details {
			fmt.Fprintf(out, "  %s: %s\n", field.Field, field.Message)
		}
	}
}
