package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/SkipTrace-Intelligence/pkg/types/report"
)

// NewLookupCmd returns `skiptrace lookup <area-code>`.
func NewLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <area-code>",
		Short:   "Resolve a US area code to its city and state",
		Example: "  skiptrace lookup 214",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			code := args[0]

			var loc report.PhoneLocation
			if cliCtx.Remote() {
				ctx, cancel := cliCtx.commandContext(cmd.Context())
				defer cancel()
				res, err := cliCtx.Client.Geo().AreaCode(ctx, code)
				if err != nil {
					return err
				}
				loc = report.PhoneLocation{City: res.City, State: res.State}
			} else {
				if loc, err = cliCtx.Service.LookupAreaCode(code); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch cliCtx.OutputFormat {
			case FormatJSON:
				return printJSON(out, map[string]string{"areaCode": code, "city": loc.City, "state": loc.State})
			case FormatTable:
				renderTable(out, []string{"Area Code", "City", "State"}, [][]string{{code, loc.City, loc.State}})
			default:
				fmt.Fprintf(out, "%s: %s, %s\n", code, loc.City, loc.State)
			}
			return nil
		},
	}
}

//Personal.AI order the ending
