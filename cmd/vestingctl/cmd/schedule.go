package cmd

import (
	"fmt"
	"math/big"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spec-kit/vesting-service/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print vested and claimable amounts over a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		start, _ := flags.GetInt64("start")
		cliff, _ := flags.GetInt64("cliff")
		end, _ := flags.GetInt64("end")
		total, _ := flags.GetUint64("total")
		decimals, _ := flags.GetUint8("decimals")
		steps, _ := flags.GetInt64("steps")

		w := schedule.Window{Start: start, Cliff: cliff, End: end}
		if err := schedule.Validate(w, total); err != nil {
			return err
		}
		if steps <= 0 {
			steps = 10
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "time\tvested\tui vested\tpercent\t")
		step := (end - start) / steps
		if step == 0 {
			step = 1
		}
		for t := start; ; t += step {
			if t > end {
				t = end
			}
			vested, err := schedule.VestedAmount(t, w, total)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s%%\t\n", t, vested, uiAmount(vested, decimals), percent(vested, total))
			if t == end {
				break
			}
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().Int64("start", 0, "start time (unix seconds)")
	scheduleCmd.Flags().Int64("cliff", 0, "cliff time (unix seconds)")
	scheduleCmd.Flags().Int64("end", 0, "end time (unix seconds)")
	scheduleCmd.Flags().Uint64("total", 0, "total allocation in base units")
	scheduleCmd.Flags().Uint8("decimals", 9, "mint decimals used for display")
	scheduleCmd.Flags().Int64("steps", 10, "number of rows between start and end")
}

func uiAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).StringFixed(int32(decimals))
}

func percent(part, total uint64) string {
	p := decimal.NewFromBigInt(new(big.Int).SetUint64(part), 0)
	t := decimal.NewFromBigInt(new(big.Int).SetUint64(total), 0)
	return p.Div(t).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
