package utils

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// ToJSONList marshals a string slice into a JSON column value. Nil and empty
// slices both become an empty JSON array.
func ToJSONList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

// FromJSONList decodes a JSON column back into a string slice.
func FromJSONList(j datatypes.JSON) []string {
	if j == nil {
		return nil
	}
	var items []string
	if err := json.Unmarshal(j, &items); err != nil {
		return nil
	}
	return items
}
