package grpc

import (
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MichaelF102/Uber-Analytics/internal/service"
)

const (
	fieldFilters = "filters"
	fieldLimit   = "limit"
	fieldOffset  = "offset"
)

// parseSelection reads {"filters": {"status": ["Completed"], ...}}. A dimension set to
// null or [] is an empty selection; a missing dimension means all values.
func parseSelection(req *structpb.Struct) (service.Selection, error) {
	filters, ok := req.GetFields()[fieldFilters]
	if !ok {
		return service.Selection{}, nil
	}
	if _, isNull := filters.GetKind().(*structpb.Value_NullValue); isNull {
		return service.Selection{}, nil
	}

	obj := filters.GetStructValue()
	if obj == nil {
		return nil, status.Error(codes.InvalidArgument, "filters must be an object")
	}

	sel := make(service.Selection, len(obj.GetFields()))
	for name, v := range obj.GetFields() {
		dim, err := service.ParseDimension(name)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		switch kind := v.GetKind().(type) {
		case *structpb.Value_NullValue:
			sel[dim] = []string{}
		case *structpb.Value_StringValue:
			sel[dim] = []string{kind.StringValue}
		case *structpb.Value_ListValue:
			values := make([]string, 0, len(kind.ListValue.GetValues()))
			for _, item := range kind.ListValue.GetValues() {
				s, ok := item.GetKind().(*structpb.Value_StringValue)
				if !ok {
					return nil, status.Errorf(codes.InvalidArgument, "filter %q must contain only strings", name)
				}
				values = append(values, s.StringValue)
			}
			sel[dim] = values
		default:
			return nil, status.Errorf(codes.InvalidArgument, "filter %q must be a list of strings", name)
		}
	}
	return sel, nil
}

func parsePage(req *structpb.Struct) (service.Page, error) {
	limit, err := intField(req, fieldLimit)
	if err != nil {
		return service.Page{}, err
	}
	offset, err := intField(req, fieldOffset)
	if err != nil {
		return service.Page{}, err
	}
	return service.Page{Limit: limit, Offset: offset}, nil
}

func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", name)
	}
	f := n.NumberValue
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a non-negative integer", name)
	}
	return int(f), nil
}

// toStruct converts a JSON-tagged DTO into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("convert response: %w", err)
	}
	return out, nil
}
