package config

import (
	"fmt"
	"strings"
)

type Field struct {
	Env   string
	Value string
}

// RequireNonEmpty reports every empty field in one error.
func RequireNonEmpty(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
	}
	return nil
}
