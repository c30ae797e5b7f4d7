package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"financial-calc/financial"
)

func newNPVCmd() *cobra.Command {
	var rate float64

	cmd := &cobra.Command{
		Use:     "npv CASHFLOW...",
		Short:   "Net present value of a cash-flow series",
		Example: `  fincalc npv --rate 0.08 -- -1000 300 400 500`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFinite(map[string]float64{"rate": rate}); err != nil {
				return err
			}
			flows, err := parseFloats(args)
			if err != nil {
				return err
			}
			printValue(cmd.OutOrStdout(), financial.NPV(rate, flows))
			return nil
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0, "periodic discount rate as a fraction")
	cmd.MarkFlagRequired("rate")
	return cmd
}

func newIRRCmd() *cobra.Command {
	var (
		estimate      float64
		maxIterations int
		tolerance     float64
	)

	cmd := &cobra.Command{
		Use:   "irr CASHFLOW...",
		Short: "Internal rate of return of a cash-flow series",
		Long: `irr solves npv(rate) = 0 with Newton-Raphson iteration. The result is
printed whether or not the solver converged; pass --residual to also print
the npv at the returned rate.`,
		Example: `  fincalc irr -- -100 39 59 55 20`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxIterations <= 0 {
				return fmt.Errorf("--max-iterations must be positive, got %d", maxIterations)
			}
			if !(tolerance > 0) || math.IsInf(tolerance, 0) {
				return fmt.Errorf("--tolerance must be a positive number, got %v", tolerance)
			}
			if err := requireFinite(map[string]float64{"estimate": estimate}); err != nil {
				return err
			}
			flows, err := parseFloats(args)
			if err != nil {
				return err
			}

			opts := []financial.IRROption{
				financial.WithMaxIterations(maxIterations),
				financial.WithTolerance(tolerance),
			}
			if cmd.Flags().Changed("estimate") {
				opts = append(opts, financial.WithEstimate(estimate))
			}

			rate := financial.IRR(flows, opts...)
			printValue(cmd.OutOrStdout(), rate)

			if residual, _ := cmd.Flags().GetBool("residual"); residual {
				printValue(cmd.OutOrStdout(), financial.NPV(rate, flows))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "starting rate instead of the computed guess")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", financial.DefaultMaxIterations, "maximum Newton-Raphson updates")
	cmd.Flags().Float64Var(&tolerance, "tolerance", financial.DefaultTolerance, "absolute |npv| at which to stop")
	cmd.Flags().Bool("residual", false, "also print npv at the returned rate")
	return cmd
}
