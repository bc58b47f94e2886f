package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrWong99/voicelift/internal/app"
	"github.com/MrWong99/voicelift/internal/exercise"
)

func exercisesCmd(g *globals) *cobra.Command {
	var (
		group  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List the exercise library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, g.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Shutdown(context.WithoutCancel(ctx)) }()

			defs := []exercise.Definition{}
			for _, d := range a.Library().Index().Entries() {
				if group == "" || strings.EqualFold(d.Group, group) {
					defs = append(defs, d)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tGROUP\tORIGIN\tALIASES")
			for _, d := range defs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.Group, d.Origin, strings.Join(d.Aliases, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only list exercises of this muscle group")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	cmd.AddCommand(exercisesAddCmd(g))
	return cmd
}

func exercisesAddCmd(g *globals) *cobra.Command {
	var def exercise.Definition
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a custom exercise",
		Example: `  voicelift exercises add "Zottman Curl" --group arms --alias zottman`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, g.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Shutdown(context.WithoutCancel(ctx)) }()

			def.Name = args[0]
			saved, err := a.Library().Add(ctx, def)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", saved.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&def.Group, "group", "", "muscle group")
	cmd.Flags().StringSliceVar(&def.Aliases, "alias", nil, "spoken alias (repeatable)")
	cmd.Flags().BoolVar(&def.Bodyweight, "bodyweight", false, "normally performed without load")
	return cmd
}
