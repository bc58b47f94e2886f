package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrWong99/voicelift/internal/app"
	"github.com/MrWong99/voicelift/internal/feedback"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

func feedbackCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Work with misinterpretation reports",
	}
	cmd.AddCommand(feedbackReplayCmd(g))
	return cmd
}

func feedbackReplayCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [FILE]",
		Short: "Re-interpret reported utterances with the current engine",
		Long: `replay parses every reported utterance again in the session context it
was reported from and shows what the engine makes of it now. FILE defaults
to storage.feedback_file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.cfg.Storage.FeedbackFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no feedback file: pass FILE or set storage.feedback_file")
			}
			recs, err := feedback.NewFileStore(path).Records()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := app.New(ctx, g.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Shutdown(context.WithoutCancel(ctx)) }()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TRANSCRIPT\tTHEN\tNOW\tEXPECTED\tSTATUS")
			fixed := 0
			for _, rec := range recs {
				now := replay(ctx, a, rec)
				status := "unchanged"
				switch {
				case rec.Expected != "" && strings.EqualFold(now.exercise, rec.Expected):
					status = "fixed"
					fixed++
				case now.exercise != rec.Exercise || now.outcome != rec.Outcome:
					status = "changed"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					rec.Transcript, describe(rec.Outcome, rec.Exercise), describe(now.outcome, now.exercise), rec.Expected, status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d reports, %d now match the expected exercise\n", len(recs), fixed)
			return nil
		},
	}
}

type replayed struct {
	outcome  string
	exercise string
}

// replay parses rec's transcript in a fresh tracker reproducing the
// reported session context.
func replay(ctx context.Context, a *app.App, rec feedback.Record) replayed {
	mode, _ := workout.ParseMode(rec.Mode)
	var plan []workout.PlanEntry
	if mode == workout.ModeGuided && rec.CurrentExercise != "" {
		plan = []workout.PlanEntry{{Name: rec.CurrentExercise}}
	}
	t := session.NewTracker(mode, plan)
	if rec.CurrentExercise != "" {
		t.Select(rec.CurrentExercise)
	}
	res := a.Engine().Parse(ctx, rec.Transcript, t.State())
	return replayed{outcome: res.Outcome(), exercise: res.Exercise}
}

func describe(outcome, exercise string) string {
	if exercise == "" {
		return outcome
	}
	return outcome + " " + exercise
}
