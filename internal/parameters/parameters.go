// Package parameters handles configuration strings given by the user, in the form
// "key1=value1,key2=value2,flag", parsed into Params.
package parameters

import (
	"github.com/pkg/errors"
	"slices"
	"strconv"
	"strings"
)

// Params represent generic configuration parameters.
type Params map[string]string

// NewFromConfigString creates params from user's configuration string.
// A key without value ("flag") is stored with an empty value. Empty entries are ignored.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=") // Only the first '=' separates the value.
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

// Value types supported by Params.
type Value interface {
	bool | int | float64 | string
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var parsed any
	var err error
	switch any(defaultValue).(type) {
	case string:
		parsed = value
	case int:
		parsed, err = strconv.Atoi(value)
	case float64:
		parsed, err = strconv.ParseFloat(value, 64)
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1":
			parsed = true
		case "false", "0":
			parsed = false
		default:
			err = errors.New("not a boolean")
		}
	}
	if err != nil {
		return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q", key, value)
	}
	return parsed.(T), nil
}

// CheckAllUsed returns an error listing the keys left in params. It is used after all known
// parameters were popped, to report typos.
func CheckAllUsed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return errors.Errorf("unknown configuration parameters: %s", strings.Join(keys, ", "))
}
