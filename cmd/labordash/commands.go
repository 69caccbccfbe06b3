package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LaborStats/internal/admin"
	"github.com/JonMunkholm/LaborStats/internal/core"
)

func (c *cli) newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Build a snapshot from the source and write it to the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, result, err := c.build(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			info := result.Snapshot.Info()
			renderKeyValues(out, [][2]string{
				{"Snapshot", info.ID.String()},
				{"Source", info.Source},
				{"Sheet", info.Sheet},
				{"Profile", info.Profile},
				{"Source rows", strconv.Itoa(info.Normalize.Rows)},
				{"Rows", strconv.Itoa(info.Rows)},
				{"Placeholders", strconv.Itoa(info.Placeholders)},
				{"Unknown continent", strconv.Itoa(info.Unknown)},
				{"Missing country", strconv.Itoa(info.Normalize.MissingCountry)},
				{"Build time", info.Duration.String()},
				{"Cache", cacheStatus(c.cfg.Cache.Driver, result.CacheErr)},
			})

			if len(info.Normalize.CoercionFailures) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(core.Metrics)+1)
				for _, col := range append([]string{core.ColYear}, core.Metrics...) {
					if n := info.Normalize.CoercionFailures[col]; n > 0 {
						rows = append(rows, []string{col, strconv.Itoa(n)})
					}
				}
				renderTable(out, []string{"Column", "Unparsed cells"}, rows)
			}
			return nil
		},
	}
}

func cacheStatus(driver string, err error) string {
	switch {
	case err != nil:
		msg := core.MapError(err)
		return fmt.Sprintf("not written: %s (%s)", msg.Message, msg.Code)
	case driver == "none":
		return "disabled"
	default:
		return "written (" + driver + ")"
	}
}

type queryFlags struct {
	mode    string
	year    string
	require bool
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&q.mode, "mode", "countries", "countries or continents")
	cmd.Flags().StringVar(&q.year, "year", "", "survey year filter (empty for any year)")
	cmd.Flags().BoolVar(&q.require, "require", false, "fail instead of printing nothing when no name is given")
}

func (q *queryFlags) query(args []string) (core.Query, error) {
	mode, err := core.ParseMode(q.mode)
	if err != nil {
		return core.Query{}, err
	}
	year, err := core.ParseYearParam(q.year)
	if err != nil {
		return core.Query{}, err
	}
	return core.Query{
		Mode:             mode,
		Year:             year,
		Names:            parseNames(args),
		RequireSelection: q.require,
	}, nil
}

func (c *cli) newQueryCmd() *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "query [NAME...]",
		Short: "Print the rows for the selected countries or continents",
		Example: `  labordash query Kenya India
  labordash query --mode continents --year 2020 Africa`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query(args)
			if err != nil {
				return err
			}

			app, _, err := c.build(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			rows, err := app.Service.Query(q)
			if err != nil {
				return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
			}

			out := cmd.OutOrStdout()
			if len(q.Names) == 0 {
				fmt.Fprintln(out, "Select at least one option and submit.")
				return nil
			}
			renderObservations(out, rows)
			return nil
		},
	}
	qf.register(cmd)
	return cmd
}

func (c *cli) newStatsCmd() *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "stats [NAME...]",
		Short: "Print the indicator distribution per selected country or continent",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query(args)
			if err != nil {
				return err
			}

			app, _, err := c.build(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			rows, err := app.Service.Query(q)
			if err != nil {
				return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
			}

			out := cmd.OutOrStdout()
			if len(q.Names) == 0 {
				fmt.Fprintln(out, "Select at least one option and submit.")
				return nil
			}
			renderDistribution(out, q.Mode, core.Distribution(q.Mode, rows))
			return nil
		},
	}
	qf.register(cmd)
	return cmd
}

func (c *cli) newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the years, countries and continents available for selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := c.build(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			opts, err := app.Service.Options()
			if err != nil {
				return err
			}

			years := make([]string, len(opts.Years))
			for i, y := range opts.Years {
				years[i] = strconv.Itoa(y)
			}
			modes := make([]string, len(opts.Modes))
			for i, m := range opts.Modes {
				modes[i] = string(m)
			}

			renderKeyValues(cmd.OutOrStdout(), [][2]string{
				{"Modes", strings.Join(modes, ", ")},
				{"Year filter", strconv.FormatBool(opts.YearFilter)},
				{"Years", strings.Join(years, ", ")},
				{"Continents", strings.Join(opts.Continents, ", ")},
				{"Countries", fmt.Sprintf("%d (%s)", len(opts.Countries), strings.Join(opts.Countries, ", "))},
			})
			return nil
		},
	}
}

func (c *cli) newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent snapshot writes recorded in the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer app.Close()

			runs, err := app.Cache.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.BuiltAt.Local().Format("2006-01-02 15:04:05"),
					r.ID,
					r.Profile,
					r.Trigger,
					strconv.Itoa(r.Rows),
					strconv.Itoa(r.Placeholders),
					r.Source,
				}
			}
			renderTable(cmd.OutOrStdout(), []string{"Built", "Snapshot", "Profile", "Trigger", "Rows", "Placeholders", "Source"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func (c *cli) newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop the cache table and clear the run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset drops the %q cache table; pass --yes to confirm", c.cfg.Cache.Table)
			}

			app, err := c.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := admin.ResetCache(cmd.Context(), app.Cache); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache reset (%s, table %s)\n", c.cfg.Cache.Driver, c.cfg.Cache.Table)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func (c *cli) newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List registered dataset profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles := core.All()
			rows := make([][]string, len(profiles))
			for i, p := range profiles {
				active := ""
				if p.Key == c.cfg.Dataset.Profile {
					active = "*"
				}
				rows[i] = []string{
					active,
					p.Key,
					p.Label,
					strconv.Itoa(len(p.KnownContinents())),
					strconv.FormatBool(p.PadContinents),
					strconv.FormatBool(p.YearFilter),
				}
			}
			renderTable(cmd.OutOrStdout(), []string{"", "Key", "Label", "Continents", "Pad", "Year filter"}, rows)
			return nil
		},
	}
}
