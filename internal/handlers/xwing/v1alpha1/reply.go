package v1alpha1

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/xwing-api/internal/errors"
)

// Reply field names
const (
	FieldLines   = "lines"
	FieldMatched = "matched"
	FieldTooMany = "too_many"
)

// Reply is the decoded form of a LookupCards response
type Reply struct {
	Lines   []string
	Matched int
	TooMany bool
}

// ToStruct encodes the reply for the wire
func (r *Reply) ToStruct() (*structpb.Struct, error) {
	lines := make([]interface{}, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, line)
	}

	st, err := structpb.NewStruct(map[string]interface{}{
		FieldLines:   lines,
		FieldMatched: r.Matched,
		FieldTooMany: r.TooMany,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to encode reply")
	}
	return st, nil
}

// ReplyFromStruct decodes a LookupCards response. Missing fields are left
// at their zero value.
func ReplyFromStruct(st *structpb.Struct) *Reply {
	reply := &Reply{}
	if st == nil {
		return reply
	}

	fields := st.GetFields()
	for _, v := range fields[FieldLines].GetListValue().GetValues() {
		reply.Lines = append(reply.Lines, v.GetStringValue())
	}
	reply.Matched = int(fields[FieldMatched].GetNumberValue())
	reply.TooMany = fields[FieldTooMany].GetBoolValue()
	return reply
}
