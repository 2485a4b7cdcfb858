package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrEmptyFrame   = errors.New("empty frame")
	ErrMissingType  = errors.New("envelope has no type")
	ErrEmptyPayload = errors.New("empty payload")
	ErrUnknownCodec = errors.New("unknown codec")
)

const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// Codec frames messages as a typed envelope {t, p}.
type Codec interface {
	Encode(t string, payload any) ([]byte, error)
	Decode(b []byte) (Inbound, error)
	// Binary reports whether frames must be sent as binary websocket
	// messages.
	Binary() bool
	Name() string
}

// Inbound is a decoded envelope whose payload has not been decoded yet.
type Inbound struct {
	Type string

	raw       []byte
	unmarshal func([]byte, any) error
}

// DecodePayload decodes the payload of in into a T.
func DecodePayload[T any](in Inbound) (T, error) {
	var out T
	if len(in.raw) == 0 || in.unmarshal == nil {
		return out, fmt.Errorf("%w for type %q", ErrEmptyPayload, in.Type)
	}
	if err := in.unmarshal(in.raw, &out); err != nil {
		return out, fmt.Errorf("decoding %q payload: %w", in.Type, err)
	}
	return out, nil
}

// CodecFor returns the codec registered under name. An empty name selects
// JSON.
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return JSON{}, nil
	case CodecMsgpack:
		return Msgpack{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

type jsonEnvelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// JSON frames envelopes as JSON text.
type JSON struct{}

func (JSON) Name() string {
	return CodecJSON
}

func (JSON) Binary() bool {
	return false
}

func (JSON) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrMissingType
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling %q payload: %w", t, err)
	}
	return json.Marshal(jsonEnvelope{T: t, P: pb})
}

func (JSON) Decode(b []byte) (Inbound, error) {
	if len(b) == 0 {
		return Inbound{}, ErrEmptyFrame
	}
	var env jsonEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Inbound{}, fmt.Errorf("unmarshalling envelope: %w", err)
	}
	if env.T == "" {
		return Inbound{}, ErrMissingType
	}
	return Inbound{Type: env.T, raw: env.P, unmarshal: json.Unmarshal}, nil
}

type msgpackEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

// Msgpack frames envelopes as MessagePack binary.
type Msgpack struct{}

func (Msgpack) Name() string {
	return CodecMsgpack
}

func (Msgpack) Binary() bool {
	return true
}

func (Msgpack) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrMissingType
	}
	pb, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling %q payload: %w", t, err)
	}
	return msgpack.Marshal(&msgpackEnvelope{T: t, P: pb})
}

func (Msgpack) Decode(b []byte) (Inbound, error) {
	if len(b) == 0 {
		return Inbound{}, ErrEmptyFrame
	}
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return Inbound{}, fmt.Errorf("unmarshalling envelope: %w", err)
	}
	if env.T == "" {
		return Inbound{}, ErrMissingType
	}
	return Inbound{Type: env.T, raw: env.P, unmarshal: msgpack.Unmarshal}, nil
}
