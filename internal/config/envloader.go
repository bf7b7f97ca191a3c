package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration values from environment variables.
// It uses the `env` struct tag to determine which environment variable to read
// and descends into nested structs. Empty variables are ignored.
func LoadFromEnv(cfg any) error {
	return loadFromEnv(reflect.ValueOf(cfg))
}

func loadFromEnv(v reflect.Value) error {
	// Dereference pointer
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	// Only process structs
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}

		// Get env tag
		envTag := fieldType.Tag.Get("env")

		// Handle nested structs
		if field.Kind() == reflect.Struct {
			if err := loadFromEnv(field); err != nil {
				return err
			}
			continue
		}

		// Skip if no env tag
		if envTag == "" {
			continue
		}

		// Get environment variable value
		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		// Set the field value based on its type
		if err := setFieldValue(field, envValue, fieldType.Name, envTag); err != nil {
			return err
		}
	}

	return nil
}

// setFieldValue sets a field value from a string environment variable.
// Only the kinds used by Config are supported.
func setFieldValue(field reflect.Value, value string, fieldName string, envVar string) error {
	switch {
	case field.Kind() == reflect.String:
		field.SetString(value)

	case field.Type() == reflect.TypeOf(time.Duration(0)):
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s (%s): %w", fieldName, envVar, err)
		}
		field.SetInt(int64(duration))

	case field.Kind() == reflect.Int:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s (%s): %w", fieldName, envVar, err)
		}
		field.SetInt(int64(intVal))

	case field.Kind() == reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s (%s): %w", fieldName, envVar, err)
		}
		field.SetBool(boolVal)

	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		// Comma-separated values, whitespace trimmed.
		values := strings.Split(value, ",")
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
		}
		field.Set(reflect.ValueOf(values))

	default:
		return fmt.Errorf("unsupported type %s for %s (%s)", field.Type(), fieldName, envVar)
	}

	return nil
}

// MergeFromEnv merges environment variables into an existing config.
func MergeFromEnv(cfg any) error {
	return LoadFromEnv(cfg)
}
