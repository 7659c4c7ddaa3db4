package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks data against the rules configured with WithRules. Columns
// without a rule are not checked. The returned error lists every failing
// column in lexical order.
func (m *Mapper) Validate(data Row) error {
	if len(m.cfg.Rules) == 0 {
		return nil
	}
	failed := validate.ValidateMap(map[string]any(data), m.cfg.Rules)
	if len(failed) == 0 {
		return nil
	}

	cols := make([]string, 0, len(failed))
	for col := range failed {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	msgs := make([]string, 0, len(cols))
	for _, col := range cols {
		msgs = append(msgs, fieldMessage(col, failed[col]))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func fieldMessage(col string, v any) string {
	err, ok := v.(error)
	if !ok {
		return fmt.Sprintf("%s: %v", col, v)
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return fmt.Sprintf("%s: failed %q", col, ves[0].Tag())
	}
	return fmt.Sprintf("%s: %v", col, err)
}
