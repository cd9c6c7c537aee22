package nasc

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig. Each holds a comma separated
// list.
const (
	EnvInjectTags           = "NASC_INJECT_TAGS"
	EnvPostConstructMethods = "NASC_POST_CONSTRUCT_METHODS"
	EnvPreDestroyMethods    = "NASC_PRE_DESTROY_METHODS"
)

// defaultEnvFile is read by LoadConfig when no files are named. It may be
// missing.
const defaultEnvFile = ".env"

// Config holds the marker sets a container resolves with. Empty lists fall
// back to DefaultMarkers.
type Config struct {
	InjectTags           []string `validate:"dive,required,tagkey"`
	PostConstructMethods []string `validate:"dive,required,exported"`
	PreDestroyMethods    []string `validate:"dive,required,exported"`
}

var (
	tagKeyPattern   = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	exportedPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("tagkey", func(fl validator.FieldLevel) bool {
		return tagKeyPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("exported", func(fl validator.FieldLevel) bool {
		return exportedPattern.MatchString(fl.Field().String())
	})
	return v
}

// LoadConfig reads marker sets from env files and the process environment.
//
// With no arguments it reads ".env" from the working directory when that
// file exists. Files named explicitly must exist. Later files override
// earlier ones and the process environment overrides every file.
func LoadConfig(envFiles ...string) (Config, error) {
	files := envFiles
	optional := len(files) == 0
	if optional {
		files = []string{defaultEnvFile}
	}

	values := make(map[string]string)
	for _, file := range files {
		read, err := godotenv.Read(file)
		if err != nil {
			if optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		maps.Copy(values, read)
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return values[key]
	}

	cfg := Config{
		InjectTags:           splitList(lookup(EnvInjectTags)),
		PostConstructMethods: splitList(lookup(EnvPostConstructMethods)),
		PreDestroyMethods:    splitList(lookup(EnvPreDestroyMethods)),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every tag key is a plain struct tag key and every
// method name is an exported identifier.
// Failures are reported as one *ValidationError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Errors: []error{err}}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s: value %q fails %q", fe.Namespace(), fe.Value(), fe.Tag()))
	}
	return &ValidationError{Errors: errs}
}

// Markers converts the configuration into resolver marker sets.
func (c Config) Markers() Markers {
	return Markers{
		Inject:        c.InjectTags,
		PostConstruct: c.PostConstructMethods,
		PreDestroy:    c.PreDestroyMethods,
	}.withDefaults()
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
