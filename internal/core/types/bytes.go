package types

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Bytes is a byte count that renders human-readable and accepts both
// numeric and string forms on the wire.
type Bytes uint64

func (b Bytes) String() string {
	return humanize.Bytes(uint64(b))
}

func (b Bytes) Bytes() uint64 {
	return uint64(b)
}

func (b Bytes) Int64() int64 {
	return int64(b)
}

func (b *Bytes) Set(value string) error {
	parsed, err := humanize.ParseBytes(value)
	if err != nil {
		return fmt.Errorf("invalid byte string %q: %w", value, err)
	}
	*b = Bytes(parsed)
	return nil
}

func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(b))
}

// UnmarshalJSON accepts either a plain number (the archive listing reports
// sizes as integers) or a human-readable string.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*b = Bytes(uint64(num))
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return b.Set(raw)
}

func (b Bytes) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *Bytes) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return b.Set(raw)
}
