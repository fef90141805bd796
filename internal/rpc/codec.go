package rpc

import "encoding/json"

// JSONCodec implements connect.Codec over encoding/json. This service
// has no .proto-generated message types (spec.md §1 excludes RPC
// transport/codegen from scope), so it trades connect-go's default
// protobuf wire format for its documented custom-codec extension point.
type JSONCodec struct{}

// Name identifies this codec on the wire as "json", matching the
// Content-Type connect-go negotiates for non-protobuf codecs.
func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
