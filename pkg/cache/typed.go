package cache

import (
	"encoding/json"
	"fmt"
)

// GetTyped deserializes a cached JSON value into T. It returns the zero
// value and false if the key is missing, expired, or not valid JSON for T.
func GetTyped[T any](s *Store, key string) (T, bool) {
	var v T
	data, ok := s.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// PutTyped serializes value as JSON and stores it with the default TTL.
func PutTyped[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal typed value for %q: %w", key, err)
	}
	return s.Put(key, data)
}

// Memo returns the cached value for key, or computes it with fn and
// stores it. A nil store always computes. Write failures are returned
// alongside the computed value.
func Memo[T any](s *Store, key string, fn func() T) (T, error) {
	if s == nil {
		return fn(), nil
	}
	if v, ok := GetTyped[T](s, key); ok {
		return v, nil
	}
	v := fn()
	return v, PutTyped(s, key, v)
}
