// Package rpc is the RPC Surface (SPEC_FULL.md §4.10): a
// google.golang.org/grpc server exposing SecretService, TrustedSecretService,
// and UserSecretService, each registered the way protoc-gen-go-grpc would
// generate them — a grpc.ServiceDesc per service, one grpc.MethodDesc per
// RPC — but against hand-declared Go request/response structs instead of a
// compiled .proto, per §4.10's note that no .proto compilation step is in
// scope here. Wire encoding uses a JSON codec forced server-wide via
// grpc.ForceServerCodec, so the structs still travel over a real gRPC
// connection (HTTP/2 framing, metadata, status codes) without requiring
// generated proto.Message implementations.
package rpc

import "encoding/json"

// jsonCodec implements encoding.Codec (the interface grpc.ForceServerCodec
// expects) over plain Go structs via encoding/json, standing in for the
// protobuf wire codec real generated clients would use.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return "json" }
