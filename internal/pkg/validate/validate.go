package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is shared; validator caches struct metadata, so one instance is enough.
var v = validator.New()

// Struct validates s using its validate tags and returns a readable error
// naming each failing field, or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
