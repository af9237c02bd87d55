// Package codec implements the round-trippable text encoding every
// inter-instance message is sent as. The grammar is not part of the
// external contract, only that it is identical across host and guests,
// so this uses a tagged-envelope JSON shape: a kind string plus the
// raw payload bytes for that kind.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/devnullvm/guestraft/pkg/guestraft/types"
)

// Kind tags which variant of the Events union a payload decodes to.
type Kind string

const (
	KindClientEnqueueRequest  Kind = "ClientEnqueueRequest"
	KindClientEnqueueResponse Kind = "ClientEnqueueResponse"
	KindAppendEntryRequest    Kind = "AppendEntryRequest"
	KindAppendEntryResponse   Kind = "AppendEntryResponse"
	KindLogEntry              Kind = "LogEntry"
)

type ClientEnqueueRequest struct {
	Val      int32           `json:"val"`
	ClientID types.InstanceID `json:"client_id"`
}

type ClientEnqueueResponse struct {
	Val      int32           `json:"val"`
	ClientID types.InstanceID `json:"client_id"`
	LogIndex int32           `json:"log_index"`
}

type AppendEntryRequest struct {
	Term         int32            `json:"term"`
	LeaderID     types.InstanceID `json:"leader_id"`
	PrevLogIndex int32            `json:"prev_log_index"`
	PrevLogTerm  int32            `json:"prev_log_term"`
	Entries      []types.LogEntry `json:"entries"`
	LeaderCommit int32            `json:"leader_commit"`
}

type AppendEntryResponse struct {
	Term     int32 `json:"term"`
	LogIndex int32 `json:"log_index"`
	Success  bool  `json:"success"`
}

type envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Encode turns one of the five Events variants into its wire bytes.
// Unsupported types are a programmer error, not a runtime condition, so
// they panic.
func Encode(message interface{}) ([]byte, error) {
	var kind Kind
	switch message.(type) {
	case ClientEnqueueRequest:
		kind = KindClientEnqueueRequest
	case ClientEnqueueResponse:
		kind = KindClientEnqueueResponse
	case AppendEntryRequest:
		kind = KindAppendEntryRequest
	case AppendEntryResponse:
		kind = KindAppendEntryResponse
	case types.LogEntry:
		kind = KindLogEntry
	default:
		panic(fmt.Sprintf("codec: unsupported message type %T", message))
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
	}

	data, err := json.Marshal(envelope{Kind: kind, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
	}
	return data, nil
}

// Decode parses wire bytes back into one of the five Events variants,
// returned as its concrete type via the empty interface. Callers type
// switch on the result to dispatch by message kind.
func Decode(data []byte) (interface{}, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
	}

	switch env.Kind {
	case KindClientEnqueueRequest:
		var m ClientEnqueueRequest
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
		}
		return m, nil
	case KindClientEnqueueResponse:
		var m ClientEnqueueResponse
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
		}
		return m, nil
	case KindAppendEntryRequest:
		var m AppendEntryRequest
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
		}
		return m, nil
	case KindAppendEntryResponse:
		var m AppendEntryResponse
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
		}
		return m, nil
	case KindLogEntry:
		var m types.LogEntry
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", types.ErrCodec, env.Kind)
	}
}
