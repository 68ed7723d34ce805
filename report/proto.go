package report

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToProto converts the record into a protobuf Struct for consumers that
// transport reports over proto-based APIs. The conversion round-trips
// through the record's JSON form so both representations share one field
// naming scheme.
func (r *Record) ToProto() (*structpb.Struct, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to convert record to proto struct: %w", err)
	}
	return s, nil
}
