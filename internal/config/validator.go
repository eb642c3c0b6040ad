// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `LoadFrom` calls `validateStruct` right after defaults are applied.  Any
// failing tag aborts start-up, so the binaries never run with a malformed
// listen address, a negative timeout, or an unknown log level.
//
// Validation errors from the library name the Go field path; we rewrite
// them to the koanf key ("http.listen_addr") operators actually type.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

//
// public API
//

// validateStruct returns the first failing key, or nil on success.
func validateStruct(c *Config) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		key := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		return fmt.Errorf("%s: failed %q (value %v)", key, fe.Tag(), fe.Value())
	}
	return err
}
