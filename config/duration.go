package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that reads either a Go duration string ("250ms")
// or a plain number of seconds (0.25), from YAML/JSON or from a command line flag.
type Duration struct {
	time.Duration
}

// ParseDuration parses a duration string or a number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return seconds(secs)
}

func seconds(v float64) (time.Duration, error) {
	d := v * float64(time.Second)
	if math.IsNaN(d) || math.Abs(d) > math.MaxInt64 {
		return 0, fmt.Errorf("invalid duration %v seconds", v)
	}
	return time.Duration(d), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) (err error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		d.Duration, err = seconds(v)
	case string:
		d.Duration, err = ParseDuration(v)
	default:
		err = fmt.Errorf("invalid duration %s", b)
	}
	return err
}

// Set implements pflag.Value.
func (d *Duration) Set(s string) (err error) {
	d.Duration, err = ParseDuration(s)
	return err
}

// Type implements pflag.Value.
func (d *Duration) Type() string { return "duration" }
