package params

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("parameter not found")

// Accessor is the read-only view of the caller's parameters.
type Accessor interface {
	// Get returns the value stored under key or a *NotFoundError.
	Get(key string) (any, error)
	// GetOr returns fallback when key is absent.
	GetOr(key string, fallback any) any
}

type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Could not get parameter %q", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Map is an Accessor over a decoded JSON object. Dotted keys walk nested objects.
type Map map[string]any

func (m Map) Get(key string) (any, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	var cur any = map[string]any(m)
	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, &NotFoundError{Key: key}
		}
		cur, ok = obj[part]
		if !ok {
			return nil, &NotFoundError{Key: key}
		}
	}
	return cur, nil
}

func (m Map) GetOr(key string, fallback any) any {
	v, err := m.Get(key)
	if err != nil {
		return fallback
	}
	return v
}

// String reads a required parameter as a string.
func String(a Accessor, key string) (string, error) {
	var s string
	if err := decode(a, key, &s); err != nil {
		return "", err
	}
	return s, nil
}

// Int reads a required parameter as an int. JSON numbers and numeric strings are accepted.
func Int(a Accessor, key string) (int, error) {
	var n int
	if err := decode(a, key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Bool reads an optional boolean, returning fallback when the key is absent or unusable.
func Bool(a Accessor, key string, fallback bool) bool {
	raw := a.GetOr(key, nil)
	if raw == nil {
		return fallback
	}
	var b bool
	if err := mapstructure.WeakDecode(raw, &b); err != nil {
		return fallback
	}
	return b
}

func decode(a Accessor, key string, out any) error {
	raw, err := a.Get(key)
	if err != nil {
		return err
	}
	if err := mapstructure.WeakDecode(raw, out); err != nil {
		return fmt.Errorf("parameter %q has an invalid value: %w", key, err)
	}
	return nil
}
