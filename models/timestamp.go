package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Timestamp is an upload time as found in exports: an ISO 8601 string, epoch milliseconds,
// or a serialized Firestore timestamp ({"seconds":..,"nanoseconds":..}, or the admin SDK's
// underscored form). The raw JSON is kept so extracted files carry it unchanged.
type Timestamp struct {
	raw json.RawMessage
}

// UnmarshalJSON stores any JSON value; an unrecognized form only means Time reports false.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.raw = nil
		return nil
	}
	t.raw = append(t.raw[:0], data...)
	return nil
}

// MarshalJSON writes the value back as it was read.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if len(t.raw) == 0 {
		return []byte("null"), nil
	}
	return t.raw, nil
}

// IsZero reports whether no upload time was recorded.
func (t Timestamp) IsZero() bool { return len(t.raw) == 0 }

// Time decodes the timestamp. ok is false when it is missing or not in a known form.
func (t Timestamp) Time() (time.Time, bool) {
	if len(t.raw) == 0 {
		return time.Time{}, false
	}
	switch t.raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t.raw, &s); err != nil {
			return time.Time{}, false
		}
		tm, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, false
		}
		return tm, true
	case '{':
		var obj struct {
			Seconds      *int64 `json:"seconds"`
			Nanoseconds  int64  `json:"nanoseconds"`
			USeconds     *int64 `json:"_seconds"`
			UNanoseconds int64  `json:"_nanoseconds"`
		}
		if err := json.Unmarshal(t.raw, &obj); err != nil {
			return time.Time{}, false
		}
		switch {
		case obj.Seconds != nil:
			return time.Unix(*obj.Seconds, obj.Nanoseconds).UTC(), true
		case obj.USeconds != nil:
			return time.Unix(*obj.USeconds, obj.UNanoseconds).UTC(), true
		}
		return time.Time{}, false
	default:
		var ms float64
		if err := json.Unmarshal(t.raw, &ms); err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}
}
