package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ListValues returns the config as a flat dot-keyed map, for the config CLI.
func ListValues(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, err
	}
	return Flatten(nested), nil
}

// GetValue reads the config file at path and returns the value for the given
// dot-separated key.
func GetValue(path, key string) (any, error) {
	flat, err := readFlat(path)
	if err != nil {
		return nil, err
	}
	val, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue updates one dot-separated key in the config file at path. The raw
// string is coerced to the key's current type so numbers and booleans stay
// numbers and booleans.
func SetValue(path, key, raw string) error {
	flat, err := readFlat(path)
	if err != nil {
		return err
	}

	current, ok := flat[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	val, err := coerce(raw, current)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	flat[key] = val

	data, err := json.MarshalIndent(Unflatten(flat), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func readFlat(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return Flatten(nested), nil
}

// coerce converts raw to match the type the key currently holds. JSON
// numbers arrive as float64.
func coerce(raw string, current any) (any, error) {
	switch current.(type) {
	case bool:
		return strconv.ParseBool(raw)
	case float64:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}
