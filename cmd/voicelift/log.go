package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrWong99/voicelift/internal/app"
	"github.com/MrWong99/voicelift/internal/engine"
	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

func logCmd(g *globals) *cobra.Command {
	var sf sessionFlags
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a workout interactively, one transcript per line",
		Long: `log reads transcripts from standard input and logs them against one
workout session. Confident results are committed immediately; anything
else asks for confirmation first.

Commands: "state" shows the session, "sets" lists logged sets, "quit" ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			r := &repl{
				app:  a,
				sess: a.Sessions().Create(mode, plan),
				in:   bufio.NewScanner(cmd.InOrStdin()),
				out:  cmd.OutOrStdout(),
			}
			return r.run(ctx)
		},
	}
	sf.register(cmd)
	return cmd
}

// repl drives one interactive logging session.
type repl struct {
	app  *app.App
	sess *session.Session
	in   *bufio.Scanner
	out  io.Writer
}

func (r *repl) run(ctx context.Context) error {
	st := r.sess.State()
	fmt.Fprintf(r.out, "session %s (%s)\n", r.sess.ID, st.Mode)
	r.printCurrent(st)

	for {
		line, ok := r.prompt("> ")
		if !ok {
			break
		}
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return r.summary(ctx)
		case "state":
			r.printCurrent(r.sess.State())
			continue
		case "sets":
			if err := r.listSets(ctx); err != nil {
				return err
			}
			continue
		}
		if err := r.handle(ctx, line); err != nil {
			return err
		}
	}
	if err := r.in.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return r.summary(ctx)
}

// handle interprets one transcript and commits it when appropriate.
func (r *repl) handle(ctx context.Context, line string) error {
	return r.sess.Do(func(t *session.Tracker) error {
		res := r.app.Engine().Parse(ctx, line, t.State())
		printResult(r.out, res)

		switch {
		case res.Err != nil:
			return nil
		case res.Navigation != nil:
			t.Navigate(*res.Navigation)
			r.printCurrent(t.State())
			return nil
		case res.Reps == nil:
			fmt.Fprintln(r.out, "  not logged: say the reps")
			return nil
		case !res.AutoCommit():
			if !r.confirm("  log it? [y/N] ") {
				fmt.Fprintln(r.out, "  discarded")
				return nil
			}
			if res.Candidate {
				if err := r.saveCandidate(ctx, res); err != nil {
					return err
				}
			}
		}

		set, _ := res.Set()
		return r.commit(ctx, t, set)
	})
}

func (r *repl) commit(ctx context.Context, t *session.Tracker, set workout.LoggedSet) error {
	committed, err := t.CommitTo(ctx, r.app.Journal(), r.sess.ID, set)
	if errors.Is(err, session.ErrInvalidSet) {
		fmt.Fprintf(r.out, "  not logged: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  logged set %d of %s\n", t.State().SetsDone, committed.Exercise)
	return nil
}

func (r *repl) saveCandidate(ctx context.Context, res engine.Result) error {
	_, err := r.app.Library().Add(ctx, exercise.Definition{Name: res.Exercise})
	switch {
	case err == nil:
		fmt.Fprintf(r.out, "  saved %q to your exercises\n", res.Exercise)
	case errors.Is(err, exercise.ErrDuplicate):
	case errors.Is(err, exercise.ErrInvalid):
		fmt.Fprintf(r.out, "  not saved: %v\n", err)
	default:
		return err
	}
	return nil
}

func (r *repl) prompt(p string) (string, bool) {
	fmt.Fprint(r.out, p)
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *repl) confirm(p string) bool {
	answer, ok := r.prompt(p)
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "yeah", "yep":
		return true
	}
	return false
}

func (r *repl) printCurrent(st session.State) {
	if st.CurrentExercise == "" {
		fmt.Fprintln(r.out, "no current exercise")
		return
	}
	fmt.Fprintf(r.out, "current: %s, %d sets done", st.CurrentExercise, st.SetsDone)
	if st.TargetSets > 0 {
		fmt.Fprintf(r.out, " of %d", st.TargetSets)
	}
	fmt.Fprintln(r.out)
}

func (r *repl) listSets(ctx context.Context) error {
	sets, err := r.app.Journal().List(ctx, r.sess.ID)
	if err != nil {
		return fmt.Errorf("list sets: %w", err)
	}
	for i, s := range sets {
		weight := fmt.Sprintf("%g", s.Weight)
		if s.Bodyweight {
			weight = "bodyweight"
		}
		fmt.Fprintf(r.out, "%3d  %-24s %s x %d\n", i+1, s.Exercise, weight, s.Reps)
	}
	return nil
}

func (r *repl) summary(ctx context.Context) error {
	sets, err := r.app.Journal().List(ctx, r.sess.ID)
	if err != nil {
		return fmt.Errorf("list sets: %w", err)
	}
	fmt.Fprintf(r.out, "%d sets logged\n", len(sets))
	return nil
}
