package feature

import (
	"encoding/json"
	"fmt"

	"github.com/c360/heartserve/errors"
)

// Validate maps a decoded JSON object onto a Record.
//
// Every name in Names must be present with a numeric value; integers are
// widened to float64. Keys outside the schema are ignored, matching the
// lenient behavior existing clients rely on. The first offending field is
// reported; validation has no side effects and is deterministic.
func Validate(raw map[string]json.RawMessage) (Record, error) {
	values := make([]float64, Count)

	for i, name := range Names {
		rawValue, ok := raw[name]
		if !ok {
			return Record{}, errors.WrapInvalid(
				fmt.Errorf("field %q: %w", name, errors.ErrMissingFeature),
				"Validator", "Validate", "check required fields")
		}

		var v float64
		if err := json.Unmarshal(rawValue, &v); err != nil {
			return Record{}, errors.WrapInvalid(
				fmt.Errorf("field %q: %w", name, errors.ErrNonNumericFeature),
				"Validator", "Validate", "parse field value")
		}
		values[i] = v
	}

	return fromValues(values), nil
}
