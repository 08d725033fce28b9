package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Millis is an epoch-milliseconds timestamp carried as a 64-bit integer.
// It marshals to a decimal JSON string because device timestamps can exceed
// 2^53 and must never pass through a float64. BSON stores it as int64.
type Millis int64

func (m Millis) Int64() int64 {
	return int64(m)
}

func (m Millis) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// MarshalJSON renders the value as a quoted decimal string.
func (m Millis) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatInt(int64(m), 10) + `"`), nil
}

// UnmarshalJSON accepts both a bare integer and a quoted decimal string.
func (m *Millis) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %q", s)
	}
	*m = Millis(v)
	return nil
}
