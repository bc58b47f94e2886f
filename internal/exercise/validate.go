package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks a [Definition] before it is saved.
//
// Rules:
//   - Name must be non-empty and must not start with a digit.
//   - Aliases must be non-empty.
//   - Origin, when set, must be recognised.
func Validate(def Definition) error {
	var errs []error

	name := strings.TrimSpace(def.Name)
	if name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	} else if name[0] >= '0' && name[0] <= '9' {
		errs = append(errs, fmt.Errorf("name %q must not start with a digit", name))
	}

	for i, a := range def.Aliases {
		if strings.TrimSpace(a) == "" {
			errs = append(errs, fmt.Errorf("aliases[%d]: must not be empty", i))
		}
	}

	if def.Origin != "" && !def.Origin.IsValid() {
		errs = append(errs, fmt.Errorf("origin %q is not recognised", def.Origin))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
