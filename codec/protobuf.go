package codec

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/renkon/renkon/boxed"
)

// Protobuf is the request.Codec shared by the three protobuf content-type
// tags (grpc, grpc-web, grpc-web-text). It is deliberately schema-free: it
// round-trips boxed.Value through structpb.Value/proto.Marshal rather than
// compiling .proto descriptors at runtime, which keeps the wire format a
// real protobuf encoding without pulling in a dynamic-proto/gRPC stack that
// this core does not own (the gRPC framing layer is assumed external, per
// the component design).
//
// Known gap: gRPC-web-text's additional base64 framing on top of the
// protobuf bytes is not auto-detected here; callers that need it decode
// the base64 layer themselves before calling Decode.
type Protobuf struct{}

// Encode marshals content to protobuf wire bytes via structpb.
func (Protobuf) Encode(content boxed.Value) ([]byte, error) {
	sv, err := boxedToStruct(content)
	if err != nil {
		return nil, fmt.Errorf("protobuf encode: %w", err)
	}
	b, err := proto.Marshal(sv)
	if err != nil {
		return nil, fmt.Errorf("protobuf encode: %w", err)
	}
	return b, nil
}

// Decode unmarshals protobuf wire bytes (a structpb.Value message) back
// into a boxed.Value.
func (Protobuf) Decode(raw []byte) (boxed.Value, error) {
	if len(raw) == 0 {
		return boxed.Null(), nil
	}
	var sv structpb.Value
	if err := proto.Unmarshal(raw, &sv); err != nil {
		return boxed.Value{}, fmt.Errorf("protobuf decode: %w", err)
	}
	return structToBoxed(&sv), nil
}

func boxedToStruct(v boxed.Value) (*structpb.Value, error) {
	switch v.Kind() {
	case boxed.KindNull:
		return structpb.NewNullValue(), nil
	case boxed.KindBool:
		b, _ := v.AsBool()
		return structpb.NewBoolValue(b), nil
	case boxed.KindInt:
		n, _ := v.AsInt64()
		return structpb.NewNumberValue(float64(n)), nil
	case boxed.KindFloat:
		f, _ := v.AsFloat32()
		return structpb.NewNumberValue(float64(f)), nil
	case boxed.KindDouble:
		f, _ := v.AsFloat64()
		return structpb.NewNumberValue(f), nil
	case boxed.KindString:
		s, _ := v.AsString()
		return structpb.NewStringValue(s), nil
	case boxed.KindBytes:
		b, _ := v.AsBytes()
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(b)), nil
	case boxed.KindArray:
		arr, _ := v.AsArray()
		values := make([]*structpb.Value, len(arr))
		for i, e := range arr {
			sv, err := boxedToStruct(e)
			if err != nil {
				return nil, err
			}
			values[i] = sv
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case boxed.KindDict:
		dict, _ := v.AsDict()
		fields := make(map[string]*structpb.Value, len(dict))
		for k, e := range dict {
			sv, err := boxedToStruct(e)
			if err != nil {
				return nil, err
			}
			fields[k] = sv
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	default:
		return nil, fmt.Errorf("unboxable kind %v", v.Kind())
	}
}

func structToBoxed(sv *structpb.Value) boxed.Value {
	switch k := sv.GetKind().(type) {
	case *structpb.Value_NullValue, nil:
		return boxed.Null()
	case *structpb.Value_BoolValue:
		return boxed.Bool(k.BoolValue)
	case *structpb.Value_NumberValue:
		return boxed.Double(k.NumberValue)
	case *structpb.Value_StringValue:
		return boxed.String(k.StringValue)
	case *structpb.Value_ListValue:
		vs := make([]boxed.Value, len(k.ListValue.GetValues()))
		for i, e := range k.ListValue.GetValues() {
			vs[i] = structToBoxed(e)
		}
		return boxed.Array(vs...)
	case *structpb.Value_StructValue:
		m := make(map[string]boxed.Value, len(k.StructValue.GetFields()))
		for key, e := range k.StructValue.GetFields() {
			m[key] = structToBoxed(e)
		}
		return boxed.Dict(m)
	default:
		return boxed.Null()
	}
}
