package workout

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is an ordered list of exercises for one workout.
//
// Example:
//
//	name: "Push day"
//	exercises:
//	  - name: Bench Press
//	    sets: 3
//	    reps: 8
//	    weight: 80
//	  - name: Dip
//	    sets: 3
//	    reps: 12
//	    weight: 0
type Plan struct {
	Name      string      `yaml:"name" json:"name"`
	Exercises []PlanEntry `yaml:"exercises" json:"exercises"`
}

// Names returns the bare exercise names of the plan in order.
func (p *Plan) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.Exercises))
	for i, e := range p.Exercises {
		names[i] = e.Name
	}
	return names
}

// LoadPlanFile reads and validates a workout plan YAML file.
func LoadPlanFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("workout: open plan %q: %w", path, err)
	}
	defer f.Close()

	p, err := LoadPlanFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("workout: parse plan %q: %w", path, err)
	}
	return p, nil
}

// LoadPlanFromReader decodes a plan from r and validates it.
func LoadPlanFromReader(r io.Reader) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("workout: decode plan yaml: %w", err)
	}
	if err := ValidatePlan(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidatePlan checks that every entry is named and that targets are not
// negative. All problems are reported together.
func ValidatePlan(p *Plan) error {
	var errs []error
	if len(p.Exercises) == 0 {
		errs = append(errs, errors.New("plan must contain at least one exercise"))
	}
	for i, e := range p.Exercises {
		prefix := fmt.Sprintf("exercises[%d]", i)
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if e.TargetSets < 0 {
			errs = append(errs, fmt.Errorf("%s.sets %d must not be negative", prefix, e.TargetSets))
		}
		if e.TargetReps != nil && *e.TargetReps <= 0 {
			errs = append(errs, fmt.Errorf("%s.reps %d must be positive", prefix, *e.TargetReps))
		}
		if e.TargetWeight != nil && *e.TargetWeight < 0 {
			errs = append(errs, fmt.Errorf("%s.weight %.1f must not be negative", prefix, *e.TargetWeight))
		}
	}
	return errors.Join(errs...)
}
