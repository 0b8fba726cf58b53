package guided

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/clarus/internal/catalog"
)

const dateLayout = "2006-01-02"

// validateAnswer checks an answer against its step declaration. Only used when
// strict answers are enabled; the default engine stores answers verbatim.
func validateAnswer(step catalog.Step, answer string) error {
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("%w: %s requires a value", ErrInvalidAnswer, step.ID)
	}

	switch step.Type {
	case catalog.StepRadio:
		if !slices.Contains(step.Options, answer) {
			return fmt.Errorf("%w: %s must be one of %q", ErrInvalidAnswer, step.ID, step.Options)
		}
	case catalog.StepDate:
		if _, err := time.Parse(dateLayout, answer); err != nil {
			return fmt.Errorf("%w: %s must be a date in YYYY-MM-DD form", ErrInvalidAnswer, step.ID)
		}
	}
	return nil
}
