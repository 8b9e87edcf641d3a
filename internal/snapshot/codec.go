package snapshot

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var requiredKeys = []string{
	"gameId", "variant", "seed", "dealNo", "players", "teams", "deck", "turned",
	"crib", "pegging", "pegTotal", "phase", "currentTurn", "cribOwner",
	"lastPlayer", "pendingSubstitution", "pointGoal", "skunkLine", "log",
	"started", "ended", "winner",
}

var requiredPlayerKeys = []string{"id", "name", "team", "seat", "hand", "played", "score"}

// Marshal encodes the snapshot as canonical JSON.
func Marshal(s *Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes and validates a JSON snapshot. Missing keys are rejected
// before decoding so a zero value is never mistaken for real state.
func Unmarshal(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := requireKeys(raw, requiredKeys, "snapshot"); err != nil {
		return nil, err
	}
	var players []map[string]json.RawMessage
	if err := json.Unmarshal(raw["players"], &players); err != nil {
		return nil, fmt.Errorf("%w: players: %v", ErrMalformed, err)
	}
	for i, p := range players {
		if err := requireKeys(p, requiredPlayerKeys, fmt.Sprintf("player %d", i)); err != nil {
			return nil, err
		}
	}

	s := &Snapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func requireKeys(obj map[string]json.RawMessage, keys []string, where string) error {
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return fmt.Errorf("%w: %s is missing %q", ErrMalformed, where, k)
		}
	}
	return nil
}

// MarshalProto encodes the snapshot as a structpb.Struct in proto wire format.
func MarshalProto(s *Snapshot) ([]byte, error) {
	data, err := Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return proto.Marshal(st)
}

// UnmarshalProto decodes and validates a snapshot produced by MarshalProto.
func UnmarshalProto(b []byte) (*Snapshot, error) {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	data, err := json.Marshal(st.AsMap())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Unmarshal(data)
}
