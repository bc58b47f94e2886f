package api

import (
	"time"

	"github.com/MrWong99/voicelift/internal/engine"
	"github.com/MrWong99/voicelift/internal/exercise"
	"github.com/MrWong99/voicelift/internal/session"
	"github.com/MrWong99/voicelift/internal/workout"
)

type createSessionRequest struct {
	// Mode is "quick_start" or "guided". Empty uses the server default.
	Mode string        `json:"mode"`
	Plan *workout.Plan `json:"plan,omitempty"`
}

type utteranceRequest struct {
	Text string `json:"text"`

	// AutoCommit commits high-confidence sets immediately. Default: true.
	AutoCommit *bool `json:"auto_commit,omitempty"`
}

type commitSetRequest struct {
	Exercise   string   `json:"exercise"`
	Weight     *float64 `json:"weight,omitempty"`
	Reps       int      `json:"reps"`
	Bodyweight bool     `json:"bodyweight"`

	// SaveExercise adds Exercise to the library first; set it when the user
	// accepted a new-exercise candidate.
	SaveExercise bool     `json:"save_exercise,omitempty"`
	Group        string   `json:"group,omitempty"`
	Aliases      []string `json:"aliases,omitempty"`
}

type feedbackRequest struct {
	Text     string `json:"text"`
	Expected string `json:"expected,omitempty"`
	Comments string `json:"comments,omitempty"`
}

type stateView struct {
	Mode            workout.Mode        `json:"mode"`
	CurrentExercise string              `json:"current_exercise,omitempty"`
	ActiveIndex     int                 `json:"active_index"`
	SetsDone        int                 `json:"sets_done"`
	TargetSets      int                 `json:"target_sets,omitempty"`
	TargetWeight    *float64            `json:"target_weight,omitempty"`
	TargetReps      *int                `json:"target_reps,omitempty"`
	LastWeight      *float64            `json:"last_weight,omitempty"`
	LastReps        *int                `json:"last_reps,omitempty"`
	LastSet         *workout.LoggedSet  `json:"last_set,omitempty"`
	Recent          []string            `json:"recent"`
	Plan            []workout.PlanEntry `json:"plan,omitempty"`
}

func viewState(st session.State) stateView {
	recent := st.Recent
	if recent == nil {
		recent = []string{}
	}
	return stateView{
		Mode:            st.Mode,
		CurrentExercise: st.CurrentExercise,
		ActiveIndex:     st.ActiveIndex,
		SetsDone:        st.SetsDone,
		TargetSets:      st.TargetSets,
		TargetWeight:    st.TargetWeight,
		TargetReps:      st.TargetReps,
		LastWeight:      st.LastWeight,
		LastReps:        st.LastReps,
		LastSet:         st.LastSet,
		Recent:          recent,
		Plan:            st.Plan,
	}
}

type sessionResponse struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	State   stateView `json:"state"`
}

type utteranceResponse struct {
	Result  engine.Result `json:"result"`
	Outcome string        `json:"outcome"`

	// Error is the parse failure, if any. Soft failures are understood
	// navigation commands with nowhere to go.
	Error string `json:"error,omitempty"`
	Soft  bool   `json:"soft,omitempty"`

	// Committed is the set written when the result was auto-committed.
	Committed *workout.LoggedSet `json:"committed,omitempty"`

	State stateView `json:"state"`
}

type commitSetResponse struct {
	Set   workout.LoggedSet    `json:"set"`
	Saved *exercise.Definition `json:"saved_exercise,omitempty"`
	State stateView            `json:"state"`
}
