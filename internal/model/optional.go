package model

import (
	"bytes"
	"encoding/json"
)

// OptionalID distinguishes three states of a nullable reference in a JSON
// payload:
//
//	field absent          → Set == false
//	"field": null         → Set == true,  Value == nil
//	"field": "abc"        → Set == true,  Value == &"abc"
//
// A plain *string cannot tell "absent" from "null", and partial updates need
// that difference: null clears the category, absence keeps it.
type OptionalID struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only invoked when the key is present, including for null.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
