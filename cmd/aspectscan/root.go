package main

import (
	"io"

	"github.com/spf13/cobra"

	scandom "aspectscan/internal/services/scan/domain"
)

type app struct {
	out    io.Writer
	runner func() scandom.RunnerPort
}

func newRootCmd(out io.Writer, runner func() scandom.RunnerPort) *cobra.Command {
	a := &app{out: out, runner: runner}

	root := &cobra.Command{
		Use:          "aspectscan",
		Short:        "Find exact aspects between moving points over a time window",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(a.scanCmd(), a.compositeCmd(), a.harmonicsCmd())
	return root
}

func (a *app) scanCmd() *cobra.Command {
	var rf requestFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List exact aspects in a window",
		Example: "  aspectscan scan --objects sun,moon,mars --aspects conjunction,square " +
			"--start 2031-01-01 --end 2031-04-01 --orb moon=6",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := rf.request()
			if err != nil {
				return err
			}
			resp, err := a.runner().Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, resp)
			}
			return writeHits(a.out, resp)
		},
	}
	rf.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the response as JSON")
	return cmd
}

func (a *app) compositeCmd() *cobra.Command {
	var rf requestFlags
	var period, agg string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "composite",
		Short: "Aggregate a full scan into daily or monthly bins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := rf.request()
			if err != nil {
				return err
			}
			resp, err := a.runner().Composite(cmd.Context(), scandom.CompositeRequest{Request: req, Period: period, Agg: agg})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, resp)
			}
			return writeBins(a.out, resp)
		},
	}
	rf.bind(cmd)
	cmd.Flags().StringVar(&period, "period", "daily", "bin size: daily or monthly")
	cmd.Flags().StringVar(&agg, "agg", "sum", "bin score: sum or weighted_mean")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the response as JSON")
	return cmd
}

func (a *app) harmonicsCmd() *cobra.Command {
	var aspects []string
	var harmonics []int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "harmonics",
		Short: "Show the target angles named aspects and harmonics expand to",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			angles, err := expand(aspects, harmonics)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, angles)
			}
			return writeAngles(a.out, angles)
		},
	}
	cmd.Flags().StringSliceVar(&aspects, "aspects", nil, "named aspects, e.g. conjunction,square")
	cmd.Flags().IntSliceVar(&harmonics, "harmonics", nil, "harmonic numbers >= 2, e.g. 5,7")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the angles as JSON")
	return cmd
}
