// Package apiv1 defines the BillService wire messages and its Connect handler and client.
//
// Messages are plain Go structs carried by a JSON codec, so browsers can call the
// service with fetch and a Content-Type of application/json.
package apiv1

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

// Codec returns the JSON codec registered under the name "json".
func Codec() connect.Codec {
	return jsonCodec{}
}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", v, err)
	}
	return nil
}
