// Package cli wires the fincalc command tree.
package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the fincalc command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "fincalc",
		Short: "Time-value-of-money calculator",
		Long: `fincalc evaluates payment, present and future value, the interest and
principal split of a payment, net present value and internal rate of return.

Run "fincalc serve" to expose the same functions over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")

	root.AddCommand(
		newServeCmd(&cfgFile),
		newPmtCmd(),
		newPVCmd(),
		newFVCmd(),
		newIPmtCmd(),
		newPPmtCmd(),
		newNPVCmd(),
		newIRRCmd(),
		newVersionCmd(),
	)
	return root
}

func Execute() error {
	err := NewRootCommand().Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}

// printValue writes v the way Go formats floats, so NaN and ±Inf are
// printed verbatim rather than hidden.
func printValue(w io.Writer, v float64) {
	fmt.Fprintln(w, strconv.FormatFloat(v, 'g', -1, 64))
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cash flow %q: %w", arg, err)
		}
		if !isFinite(v) {
			return nil, fmt.Errorf("cash flow %q is not a finite number", arg)
		}
		out = append(out, v)
	}
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// requireFinite rejects NaN and infinite flag values by flag name.
func requireFinite(values map[string]float64) error {
	for name, v := range values {
		if !isFinite(v) {
			return fmt.Errorf("--%s must be a finite number", name)
		}
	}
	return nil
}
