// internal/models/json_list.go
package models

import (
	"database/sql/driver"
	"encoding/json"
)

// StringList is a list of strings stored as a JSON array in a text column
// (image URLs, care instructions).
type StringList []string

// PurchaseLink points at an external shop listing for a product.
type PurchaseLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// PurchaseLinks is stored as a JSON array of objects in a text column.
type PurchaseLinks []PurchaseLink

func (l StringList) Value() (driver.Value, error) {
	return encodeJSONList(l)
}

func (l *StringList) Scan(value interface{}) error {
	*l = decodeJSONList[string](value)
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (StringList) GormDataType() string {
	return "text"
}

func (l PurchaseLinks) Value() (driver.Value, error) {
	return encodeJSONList(l)
}

func (l *PurchaseLinks) Scan(value interface{}) error {
	*l = decodeJSONList[PurchaseLink](value)
	return nil
}

func (l PurchaseLinks) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]PurchaseLink(l))
}

func (PurchaseLinks) GormDataType() string {
	return "text"
}

func encodeJSONList[T any](items []T) (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// decodeJSONList never fails: NULL, empty and malformed columns all decode
// to an empty list so a single bad row cannot break a catalog page.
func decodeJSONList[T any](value interface{}) []T {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return []T{}
	}

	if len(raw) == 0 {
		return []T{}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}
