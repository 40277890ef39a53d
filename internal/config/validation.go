package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags and the reply templates.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for name, tmpl := range map[string]string{
		"messages.field_saved_fmt":   c.Messages.FieldSavedFmt,
		"messages.field_invalid_fmt": c.Messages.FieldInvalidFmt,
	} {
		if strings.Count(tmpl, "%s") != 1 {
			return fmt.Errorf("%s must contain exactly one %%s placeholder", name)
		}
	}

	return nil
}
