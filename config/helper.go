package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgerr "github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ErrNotFound is returned by the getters for a key without a value
var ErrNotFound = errors.New("not found config value")

// GetString returns string value. Returns error if value is not set
func GetString(src *viper.Viper, key string) (string, error) {

	if !src.IsSet(key) {
		return "", notFound(key)
	}

	return src.GetString(key), nil
}

// GetDuration returns duration value, the value must have a unit: "5s", "1m30s"
func GetDuration(src *viper.Viper, key string) (time.Duration, error) {

	str, err := GetString(src, key)
	if err != nil {
		return 0, err
	}

	val, err := time.ParseDuration(strings.TrimSpace(str))
	if err != nil {
		return 0, invalid(key, err)
	}

	return val, nil
}

// GetBool returns boolean value: 1, t, true, 0, f, false (any case)
func GetBool(src *viper.Viper, key string) (bool, error) {

	str, err := GetString(src, key)
	if err != nil {
		return false, err
	}

	val, err := strconv.ParseBool(strings.TrimSpace(str))
	if err != nil {
		return false, invalid(key, err)
	}

	return val, nil
}

// GetInt returns integer value. A value which is not a decimal integer is an error.
func GetInt(src *viper.Viper, key string) (int, error) {

	str, err := GetString(src, key)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, invalid(key, err)
	}

	return val, nil
}

func notFound(key string) error {
	return fmt.Errorf("%w: '%s'", ErrNotFound, key)
}

func invalid(key string, err error) error {
	return pkgerr.Wrapf(err, "invalid config value '%s'", key)
}
