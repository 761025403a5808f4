package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/customeros/sleeper/internal/utils"
)

// Options is an immutable option name to value mapping. The zero value is empty.
type Options struct {
	values map[string]string
}

func NewOptions(values map[string]string) Options {
	o := Options{values: make(map[string]string, len(values))}
	for k, v := range values {
		o.values[normalizeKey(k)] = v
	}
	return o
}

// Defaults returns the documented default for every known option.
func Defaults() Options {
	return NewOptions(defaultValues)
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Merge returns a copy of o with overrides applied on top.
func (o Options) Merge(overrides map[string]string) Options {
	merged := make(map[string]string, len(o.values)+len(overrides))
	for k, v := range o.values {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[normalizeKey(k)] = v
	}
	return Options{values: merged}
}

func (o Options) Lookup(key string) (string, bool) {
	v, ok := o.values[normalizeKey(key)]
	return v, ok
}

func (o Options) Get(key string) string {
	v, _ := o.Lookup(key)
	return v
}

func (o Options) Bool(key string) bool {
	return utils.ParseBool(o.Get(key))
}

// ValidRepeat reports whether value is a whole number of minutes at or above the minimum.
func ValidRepeat(value string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	return err == nil && n >= MinRepeatMinutes
}

// Int returns def when the value is missing or not an integer.
func (o Options) Int(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(o.Get(key)))
	if err != nil {
		return def
	}
	return n
}

func (o Options) Float(key string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(o.Get(key)), 64)
	if err != nil {
		return def
	}
	return f
}

func (o Options) Equal(other Options) bool {
	if len(o.values) != len(other.values) {
		return false
	}
	for k, v := range o.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String renders the options sorted by key with secrets masked.
func (o Options) String() string {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := o.values[k]
		if secretKeys[k] && v != "" {
			v = "******"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ParseArgs turns "key=value" arguments into a map. A bare "key" means "key=true".
func ParseArgs(args []string) map[string]string {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		key = normalizeKey(key)
		if key == "" {
			continue
		}
		if !found {
			value = "true"
		}
		out[key] = value
	}
	return out
}
