// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/newsxpress/internal/recommend"
)

func newNormalizeCmd() *cobra.Command {
	var fromJSON bool

	cmd := &cobra.Command{
		Use:   "normalize <value>",
		Short: "Print the tags a raw preference value normalizes to",
		Long: `Normalize shows how a user preference (actor, place or topic) is turned into
tags before it is matched against the feature vocabulary. The value is taken
as a raw string such as '{Sports,"Politics"}'. With --json it is parsed as a
JSON value instead: null, a string, or an array of strings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pref := recommend.RawPreference(args[0])
			if fromJSON {
				if err := pref.UnmarshalJSON([]byte(args[0])); err != nil {
					return fmt.Errorf("parse preference: %w", err)
				}
			}
			tags := recommend.NormalizePreferences(pref)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tags, "\n"))
			return err
		},
	}
	cmd.Flags().BoolVar(&fromJSON, "json", false, "parse the value as JSON")
	return cmd
}
