package utils

import (
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseFloat returns ok=false when value is present but malformed.
func ParseFloat(value string) (float64, bool) {
	if value == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseFloatPtr is ParseFloat for optional filters; an empty value yields nil.
func ParseFloatPtr(value string) (*float64, bool) {
	if value == "" {
		return nil, true
	}
	f, ok := ParseFloat(value)
	if !ok {
		return nil, false
	}
	return &f, true
}

// ParseBoolPtr yields nil for an empty value.
func ParseBoolPtr(value string) (*bool, bool) {
	if value == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, false
	}
	return &b, true
}
