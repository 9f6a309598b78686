// Package lobbyv1 defines the lobby.v1 gRPC API: request and response
// messages, the service descriptor, and a typed client. Messages are carried
// as JSON using the codec registered under CodecName.
package lobbyv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the JSON codec. Clients must send
// calls with grpc.CallContentSubtype(CodecName); the typed client does so.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling %T: %w", v, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshalling %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
