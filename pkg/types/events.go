package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MessageTypeSensorUpdate   string = "sensorUpdate"
	MessageTypeTamperAlert    string = "tamperAlert"
	MessageTypeSimulateTamper string = "simulateTamper"
)

var ErrUnknownMessageType = errors.New("unknown message type")

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TransportMessage is a closed set of inbound frames. Only SensorUpdate and TamperAlert
// implement it.
type TransportMessage interface {
	MessageType() string
	transportMessage()
}

type SensorUpdate struct {
	Reading SensorReading
}

func (SensorUpdate) MessageType() string {
	return MessageTypeSensorUpdate
}
func (SensorUpdate) transportMessage() {}

type TamperAlert struct {
	Alert Alert
}

func (TamperAlert) MessageType() string {
	return MessageTypeTamperAlert
}
func (TamperAlert) transportMessage() {}

func DecodeMessage(b []byte) (TransportMessage, error) {
	env := envelope{}

	err := json.Unmarshal(b, &env)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}

	switch env.Type {
	case MessageTypeSensorUpdate:
		r := SensorReading{}
		if err := json.Unmarshal(env.Data, &r); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		return SensorUpdate{Reading: r}, nil
	case MessageTypeTamperAlert:
		a := Alert{}
		if err := json.Unmarshal(env.Data, &a); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", env.Type, err)
		}
		if a.Type == "" {
			a.Type = AlertTypeTamper
		}
		return TamperAlert{Alert: a}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}

// SimulateTamper is the only outbound control message. It asks the remote side to
// run a simulated tamper event for the device.
type SimulateTamper struct {
	DeviceID string `json:"device_id"`
}

func (m SimulateTamper) MessageType() string {
	return MessageTypeSimulateTamper
}

func (m SimulateTamper) Body() []byte {
	data, _ := json.Marshal(m)
	b, _ := json.Marshal(envelope{Type: m.MessageType(), Data: data})
	return b
}
