package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrWong99/voicelift/internal/app"
	"github.com/MrWong99/voicelift/internal/engine"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

// sessionFlags are shared by parse and log.
type sessionFlags struct {
	mode     string
	planPath string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "session mode: quick_start or guided (default from config)")
	cmd.Flags().StringVar(&f.planPath, "plan", "", "workout plan YAML; implies guided mode unless --mode is set")
}

// resolve returns the session mode and plan selected by the flags.
func (f *sessionFlags) resolve(defaultMode string) (workout.Mode, []workout.PlanEntry, error) {
	var plan []workout.PlanEntry
	if f.planPath != "" {
		p, err := workout.LoadPlanFile(f.planPath)
		if err != nil {
			return 0, nil, err
		}
		plan = p.Exercises
	}

	name := f.mode
	if name == "" {
		name = defaultMode
		if len(plan) > 0 {
			name = workout.ModeGuided.String()
		}
	}
	mode, ok := workout.ParseMode(name)
	if !ok {
		return 0, nil, fmt.Errorf("unknown mode %q", name)
	}
	if mode == workout.ModeGuided && len(plan) == 0 {
		return 0, nil, fmt.Errorf("guided mode needs --plan")
	}
	return mode, plan, nil
}

func parseCmd(g *globals) *cobra.Command {
	var (
		sf      sessionFlags
		asJSON  bool
		current string
	)
	cmd := &cobra.Command{
		Use:   "parse TRANSCRIPT...",
		Short: "Interpret one transcript and print the result",
		Example: `  voicelift parse "bench press 80 kg for 8"
  voicelift parse --plan plan.yaml --json "done"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, plan, err := sf.resolve(g.cfg.Engine.DefaultMode)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := app.New(ctx, g.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Shutdown(context.WithoutCancel(ctx)) }()

			sess := a.Sessions().Create(mode, plan)
			var res engine.Result
			_ = sess.Do(func(t *session.Tracker) error {
				if current != "" {
					t.Select(current)
				}
				res = a.Engine().Parse(ctx, strings.Join(args, " "), t.State())
				return nil
			})

			if asJSON {
				return writeResultJSON(cmd.OutOrStdout(), res)
			}
			printResult(cmd.OutOrStdout(), res)
			if res.Failed() && !engine.IsSoft(res.Err) {
				return res.Err
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&current, "current", "", "exercise to treat as in progress")
	return cmd
}

// resultView is the JSON shape printed by parse --json.
type resultView struct {
	engine.Result
	Outcome    string `json:"outcome"`
	AutoCommit bool   `json:"auto_commit"`
	Error      string `json:"error,omitempty"`
	Soft       bool   `json:"soft,omitempty"`
}

func writeResultJSON(w io.Writer, res engine.Result) error {
	v := resultView{Result: res, Outcome: res.Outcome(), AutoCommit: res.AutoCommit()}
	if res.Err != nil {
		v.Error = res.Err.Error()
		v.Soft = engine.IsSoft(res.Err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes a short human-readable summary of res.
func printResult(w io.Writer, res engine.Result) {
	if res.Err != nil {
		fmt.Fprintf(w, "error: %v\n", res.Err)
		return
	}
	if res.Navigation != nil {
		fmt.Fprintf(w, "%s -> %s\n", res.Intent, res.Navigation.Exercise)
		return
	}

	fmt.Fprintf(w, "%s: %s %s x %s", res.Outcome(), res.Exercise, weightText(res), repsText(res.Reps))
	if res.Sets > 1 {
		fmt.Fprintf(w, " (%d sets)", res.Sets)
	}
	fmt.Fprintf(w, "  confidence %.2f\n", res.Confidence)
	if len(res.NeedsConfirmation) > 0 {
		fmt.Fprintf(w, "  confirm: %s\n", strings.Join(res.NeedsConfirmation, ", "))
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintf(w, "  similar: %s\n", strings.Join(res.Suggestions, ", "))
	}
	for _, c := range res.Corrections {
		fmt.Fprintf(w, "  heard %q as %q\n", c.Original, c.Corrected)
	}
}

func weightText(res engine.Result) string {
	switch {
	case res.Bodyweight:
		return "bodyweight"
	case res.Weight == nil:
		return "?"
	}
	unit := res.Unit
	if unit == "" {
		unit = "kg"
	}
	return strconv.FormatFloat(*res.Weight, 'f', -1, 64) + " " + unit
}

func repsText(reps *int) string {
	if reps == nil {
		return "?"
	}
	return strconv.Itoa(*reps)
}
