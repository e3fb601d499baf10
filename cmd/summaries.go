/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/catseg/state"
	"github.com/spf13/cobra"
)

var optReguess bool
var optJSON bool
var optTotals bool

// summariesCmd represents the summaries command
var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "List stored segment summaries",
	Long: `Lists the summaries of every segment in the state database, oldest first.

With --reguess each segment's activity is guessed again from its speed
using the configured profiles; changed rows are marked with *. With --totals the (re-guessed) summaries
are rolled up per date and activity.`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		cfg := mustLoadConfig()

		store, err := openStore(true)
		if err != nil {
			log.Fatalln(err)
		}
		defer store.Close()

		summaries, err := store.AllSummaries()
		if err != nil {
			log.Fatalln(err)
		}
		var changed []int
		if optReguess {
			summaries, changed = state.Reguess(summaries, cfg.Profiles)
		}

		w := cmd.OutOrStdout()
		if optTotals {
			printTotals(w, state.ActivityTotals(summaries))
			return
		}
		if optJSON {
			enc := json.NewEncoder(w)
			for _, s := range summaries {
				if err := enc.Encode(s); err != nil {
					log.Fatalln(err)
				}
			}
			return
		}
		for i, s := range summaries {
			mark := " "
			if slices.Contains(changed, i) {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %s %s-%s %-9s %8s km %6s km/h %5s m  %s\n",
				mark, s.Date, s.TimeStart, s.TimeStop, s.Activity,
				humanize.FtoaWithDigits(s.DistanceKm, 2), humanize.FtoaWithDigits(s.SpeedKmh, 1),
				humanize.Comma(int64(s.GainM)), s.Name)
		}
		if optReguess {
			fmt.Fprintf(w, "%d of %d activities changed\n", len(changed), len(summaries))
		}
	},
}

func printTotals(w io.Writer, totals []state.Totals) {
	if optJSON {
		enc := json.NewEncoder(w)
		for _, t := range totals {
			if err := enc.Encode(t); err != nil {
				log.Fatalln(err)
			}
		}
		return
	}
	for _, t := range totals {
		fmt.Fprintf(w, "%s %-9s %3d x %8s km %6s m up %6s m down\n",
			t.Date, t.Activity, t.Count, humanize.FtoaWithDigits(t.DistanceKm, 2),
			humanize.Comma(int64(t.GainM)), humanize.Comma(int64(t.LossM)))
	}
}

func init() {
	rootCmd.AddCommand(summariesCmd)

	flags := summariesCmd.Flags()
	flags.BoolVar(&optReguess, "reguess", false, "guess activities again from speed")
	flags.BoolVar(&optJSON, "json", false, "print summaries as JSON lines")
	flags.BoolVar(&optTotals, "totals", false, "print count, distance and elevation per date and activity")
}
