package providers

import (
	"encoding/json"
	"strconv"
)

// flexString decodes a JSON value that may arrive as string, number, bool
// or null into its string form. Provider APIs are loose about field types
// (booleans and numeric strength fields in particular), and the flat result
// contract requires every field as a string with "" for absent data.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*f = ""
	case string:
		*f = flexString(val)
	case bool:
		*f = flexString(strconv.FormatBool(val))
	case float64:
		*f = flexString(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		// Arrays/objects have no flat representation; drop them.
		*f = ""
	}
	return nil
}

func (f flexString) String() string {
	return string(f)
}
