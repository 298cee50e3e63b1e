// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/newsxpress/internal/recommend"
	"github.com/tomtom215/newsxpress/internal/recommend/artifacts"
)

// errRejectedGroups makes validate exit non-zero when a group was dropped.
var errRejectedGroups = errors.New("artifact groups rejected")

// validateReport is the output of recctl validate.
type validateReport struct {
	Dir           string            `json:"dir"`
	Generation    string            `json:"generation"`
	Articles      int               `json:"articles"`
	Users         int               `json:"users"`
	Content       bool              `json:"content_available"`
	Collaborative bool              `json:"collaborative_available"`
	Rejected      map[string]string `json:"rejected,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Load a trainer output directory and report what the server would serve",
		Long: `Validate reads a snapshot directory exactly as the server does and prints
the generation, article and user counts, and which artifact groups are usable.
It exits non-zero when article metadata is missing or any group is only
partly present or inconsistent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := artifacts.NewDirLoader(args[0], cliLogger())
			raw, err := loader.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			snap, err := recommend.NewSnapshot(raw)
			if err != nil {
				return fmt.Errorf("build snapshot: %w", err)
			}

			report := validateReport{
				Dir:           args[0],
				Generation:    snap.Generation(),
				Articles:      snap.NumArticles(),
				Users:         snap.NumUsers(),
				Content:       snap.HasContent(),
				Collaborative: snap.HasCollaborative(),
			}
			for _, r := range snap.Rejected() {
				if report.Rejected == nil {
					report.Rejected = make(map[string]string)
				}
				report.Rejected[r.Group] = r.Err.Error()
			}

			if err := printReport(cmd, report, asJSON); err != nil {
				return err
			}
			if len(report.Rejected) > 0 {
				return errRejectedGroups
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, r validateReport, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	fmt.Fprintf(out, "generation:    %s\n", r.Generation)
	fmt.Fprintf(out, "articles:      %d\n", r.Articles)
	fmt.Fprintf(out, "users:         %d\n", r.Users)
	fmt.Fprintf(out, "content:       %s\n", availability(r.Content, r.Rejected["content"]))
	fmt.Fprintf(out, "collaborative: %s\n", availability(r.Collaborative, r.Rejected["collaborative"]))
	return nil
}

func availability(ok bool, reason string) string {
	switch {
	case ok:
		return "available"
	case reason != "":
		return "rejected: " + reason
	default:
		return "absent"
	}
}
