package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is when an order was placed. Blobs written by the browser app carry a
// locale-formatted string instead of RFC 3339; such values are kept in Raw and
// written back unchanged.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// At wraps t.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return t.Time.Format(time.RFC3339)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw != "" {
		return json.Marshal(t.Raw)
	}
	return json.Marshal(t.Time)
}

// UnmarshalJSON accepts RFC 3339 strings, epoch milliseconds and any other
// string, which is kept verbatim.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			*t = Timestamp{Time: parsed}
			return nil
		}
		*t = Timestamp{Raw: s}
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*t = Timestamp{Time: time.UnixMilli(ms)}
	return nil
}
