package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Brownie44l1/caries-risk/internal/pattern"
	"github.com/Brownie44l1/caries-risk/internal/risk"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the caries-risk percentage per ridge pattern and gender",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := risk.DefaultTable()
		male, female := table[risk.Male], table[risk.Female]

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PATTERN\tMALE %\tFEMALE %")
		for i, label := range pattern.Labels {
			fmt.Fprintf(w, "%s\t%.1f\t%.1f\n", label, male[i], female[i])
		}
		maleLo, maleHi := male.Bounds()
		femaleLo, femaleHi := female.Bounds()
		fmt.Fprintf(w, "range\t%.1f-%.1f\t%.1f-%.1f\n", maleLo, maleHi, femaleLo, femaleHi)
		return w.Flush()
	},
}
