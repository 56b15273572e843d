package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON-backed list columns. Postgres stores these as jsonb; an empty slice
// round-trips as [] so consumers never see null.

type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

type EducationEntry struct {
	Degree string `json:"degree"`
	Field  string `json:"field"`
	Year   string `json:"year"`
}

type EducationList []EducationEntry

func (l EducationList) Value() (driver.Value, error) {
	if l == nil {
		l = EducationList{}
	}
	return json.Marshal(l)
}

func (l *EducationList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProjectList []Project

func (l ProjectList) Value() (driver.Value, error) {
	if l == nil {
		l = ProjectList{}
	}
	return json.Marshal(l)
}

func (l *ProjectList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, target interface{}) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}
