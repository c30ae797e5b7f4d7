package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"financial-calc/financial"
)

type annuityFlags struct {
	rate         float64
	numPeriods   int
	period       int
	presentValue float64
	futureValue  float64
	payment      float64
	due          int
}

func (f *annuityFlags) register(cmd *cobra.Command, withPeriod bool, amounts ...string) {
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "periodic interest rate as a fraction, e.g. 0.01")
	cmd.Flags().IntVar(&f.numPeriods, "periods", 0, "number of periods")
	cmd.Flags().IntVar(&f.due, "due", 0, "0 = payments at end of period, 1 = at start")
	if withPeriod {
		cmd.Flags().IntVar(&f.period, "period", 1, "1-indexed payment period")
	}
	for _, name := range amounts {
		switch name {
		case "pv":
			cmd.Flags().Float64Var(&f.presentValue, "pv", 0, "present value")
		case "fv":
			cmd.Flags().Float64Var(&f.futureValue, "fv", 0, "future value")
		case "pmt":
			cmd.Flags().Float64Var(&f.payment, "pmt", 0, "payment per period")
		}
	}
	cmd.MarkFlagRequired("rate")
	cmd.MarkFlagRequired("periods")
}

func (f *annuityFlags) when() (financial.WhenDue, error) {
	switch f.due {
	case 0:
		return financial.EndOfPeriod, nil
	case 1:
		return financial.BeginningOfPeriod, nil
	}
	return 0, fmt.Errorf("--due must be 0 or 1, got %d", f.due)
}

func newAnnuityCmd(
	use, short string,
	withPeriod bool,
	amounts []string,
	compute func(f *annuityFlags, when financial.WhenDue) float64,
) *cobra.Command {
	var f annuityFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := f.when()
			if err != nil {
				return err
			}
			if err := requireFinite(map[string]float64{
				"rate": f.rate,
				"pv":   f.presentValue,
				"fv":   f.futureValue,
				"pmt":  f.payment,
			}); err != nil {
				return err
			}
			printValue(cmd.OutOrStdout(), compute(&f, when))
			return nil
		},
	}
	f.register(cmd, withPeriod, amounts...)
	return cmd
}

func newPmtCmd() *cobra.Command {
	return newAnnuityCmd("pmt", "Payment per period", false, []string{"pv", "fv"},
		func(f *annuityFlags, when financial.WhenDue) float64 {
			return financial.Pmt(f.rate, f.numPeriods, f.presentValue, f.futureValue, when)
		})
}

func newPVCmd() *cobra.Command {
	return newAnnuityCmd("pv", "Present value", false, []string{"pmt", "fv"},
		func(f *annuityFlags, when financial.WhenDue) float64 {
			return financial.PV(f.rate, f.numPeriods, f.payment, f.futureValue, when)
		})
}

func newFVCmd() *cobra.Command {
	return newAnnuityCmd("fv", "Future value", false, []string{"pmt", "pv"},
		func(f *annuityFlags, when financial.WhenDue) float64 {
			return financial.FV(f.rate, f.numPeriods, f.payment, f.presentValue, when)
		})
}

func newIPmtCmd() *cobra.Command {
	return newAnnuityCmd("ipmt", "Interest portion of a payment", true, []string{"pv", "fv"},
		func(f *annuityFlags, when financial.WhenDue) float64 {
			return financial.IPmt(f.rate, f.period, f.numPeriods, f.presentValue, f.futureValue, when)
		})
}

func newPPmtCmd() *cobra.Command {
	return newAnnuityCmd("ppmt", "Principal portion of a payment", true, []string{"pv", "fv"},
		func(f *annuityFlags, when financial.WhenDue) float64 {
			return financial.PPmt(f.rate, f.period, f.numPeriods, f.presentValue, f.futureValue, when)
		})
}
