package types

import (
	"bytes"
	"encoding/json"
)

// FlexibleID accepts a recipe id sent either as a JSON number or a string.
// The raw text is kept and validated later with ParseRecipeID.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// Int64 parses the id.
func (f FlexibleID) Int64() (int64, error) {
	return ParseRecipeID(string(f))
}
