// Package yaml loads datescrub configuration files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/fwojciec/datescrub"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path over datescrub.DefaultConfig and
// validates the result. Keys absent from the file keep their defaults;
// unknown keys are rejected. Returns EINVALID for malformed or invalid files.
func LoadConfig(path string) (*datescrub.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, datescrub.Errorf(datescrub.EINVALID, "failed to read configuration file %q: %v", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig is like LoadConfig but reads the YAML document from data.
func ParseConfig(data []byte) (*datescrub.Config, error) {
	cfg := datescrub.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, datescrub.Errorf(datescrub.EINVALID, "failed to parse configuration: %v", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report yaml key names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// A class name is a single whitespace-free token.
	_ = v.RegisterValidation("classname", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// Validate checks cfg against the constraints declared on datescrub.Config.
// Returns EINVALID naming the first offending key.
func Validate(cfg *datescrub.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return datescrub.Errorf(datescrub.EINVALID, "invalid configuration: %v", err)
	}
	fe := verrs[0]
	if fe.Param() != "" {
		return datescrub.Errorf(datescrub.EINVALID, "invalid configuration: %s fails %s=%s", fieldPath(fe), fe.Tag(), fe.Param())
	}
	return datescrub.Errorf(datescrub.EINVALID, "invalid configuration: %s fails %s", fieldPath(fe), fe.Tag())
}

// fieldPath strips the struct name from a namespace such as
// "Config.entry_classes[0]".
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Namespace()
	}
	return path
}
