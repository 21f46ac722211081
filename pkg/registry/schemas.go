package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrConfigurationInvalid is returned when a step configuration fails
// schema validation. Configuration errors are fatal and never retried.
var ErrConfigurationInvalid = errors.New("configuration invalid")

func validateConfiguration(schema map[string]any, config map[string]any) error {
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		details = append(details, resultErr.String())
	}

	return fmt.Errorf("%w: %s", ErrConfigurationInvalid, strings.Join(details, "; "))
}
