package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	DeviceStatusActive    string = "active"
	DeviceStatusDestroyed string = "destroyed"
)

type Device struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	Name         string    `json:"name,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// Destroyed devices are kept in the registry but can no longer be used for simulation actions.
func (d Device) Destroyed() bool {
	return d.Status == DeviceStatusDestroyed
}

func (d *Device) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID               string          `json:"id"`
		DeviceID         string          `json:"device_id"`
		Status           string          `json:"status"`
		RegisteredAt     json.RawMessage `json:"registeredAt"`
		RegistrationTime json.RawMessage `json:"registrationTime"`
		Name             string          `json:"name"`
		Description      string          `json:"description"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	ts := raw.RegisteredAt
	if isEmpty(ts) {
		ts = raw.RegistrationTime
	}

	registeredAt, err := parseTimestamp(ts)
	if err != nil {
		return fmt.Errorf("invalid registration time: %w", err)
	}

	d.ID = firstOf(raw.ID, raw.DeviceID)
	d.Status = raw.Status
	d.RegisteredAt = registeredAt
	d.Name = raw.Name
	d.Description = raw.Description

	return nil
}

type DeviceInfo struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type Motion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (m Motion) Magnitude() float64 {
	return math.Sqrt(m.X*m.X + m.Y*m.Y + m.Z*m.Z)
}

type SensorReading struct {
	Motion      Motion    `json:"motion"`
	Light       int       `json:"light"`
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

// UnmarshalJSON also accepts numeric fields encoded as strings, e.g. "22.50".
func (r *SensorReading) UnmarshalJSON(b []byte) error {
	var raw struct {
		Motion struct {
			X number `json:"x"`
			Y number `json:"y"`
			Z number `json:"z"`
		} `json:"motion"`
		Light       number          `json:"light"`
		Temperature number          `json:"temperature"`
		Timestamp   json.RawMessage `json:"timestamp"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid reading timestamp: %w", err)
	}

	r.Motion = Motion{X: float64(raw.Motion.X), Y: float64(raw.Motion.Y), Z: float64(raw.Motion.Z)}
	r.Light = int(math.Round(float64(raw.Light)))
	r.Temperature = float64(raw.Temperature)
	r.Timestamp = ts

	return nil
}

const AlertTypeTamper string = "tamper"

// Alert is immutable once created. Alerts are only ever appended to a feed, never edited.
type Alert struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	DeviceID     string    `json:"device_id"`
	Timestamp    time.Time `json:"timestamp"`
	FinalDataRef string    `json:"final_data_ref,omitempty"`
}

func (a *Alert) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID              string          `json:"id"`
		Type            string          `json:"type"`
		DeviceID        string          `json:"device_id"`
		DeviceIDCamel   string          `json:"deviceId"`
		Timestamp       json.RawMessage `json:"timestamp"`
		FinalDataRef    string          `json:"final_data_ref"`
		FinalDataRefAlt string          `json:"finalDataRef"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid alert timestamp: %w", err)
	}

	a.ID = raw.ID
	a.Type = raw.Type
	a.DeviceID = firstOf(raw.DeviceID, raw.DeviceIDCamel)
	a.Timestamp = ts
	a.FinalDataRef = firstOf(raw.FinalDataRef, raw.FinalDataRefAlt)

	return nil
}

const (
	SeverityInfo     string = "info"
	SeverityWarning  string = "warning"
	SeverityError    string = "error"
	SeverityCritical string = "critical"
)

type Notification struct {
	ID          string    `json:"id"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AlertID     string    `json:"alertID,omitempty"`
	Dismissible bool      `json:"dismissible"`
	Timestamp   time.Time `json:"timestamp"`
}

type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	if isEmpty(b) {
		*n = 0
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}

	*n = number(f)
	return nil
}

func isEmpty(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// parseTimestamp accepts RFC 3339 strings as well as epoch milliseconds, which is what
// browser clients write into the collections.
func parseTimestamp(b json.RawMessage) (time.Time, error) {
	if isEmpty(b) {
		return time.Time{}, nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return time.Time{}, err
		}
		if s == "" {
			return time.Time{}, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		return time.Parse(time.RFC3339Nano, s)
	}

	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(int64(ms)).UTC(), nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
