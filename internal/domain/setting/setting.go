package setting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/csc-helpdesk/csc/internal/shared/biztime"
)

// ValueType defines how a setting value is parsed.
type ValueType string

const (
	ValueTypeString  ValueType = "STRING"
	ValueTypeNumber  ValueType = "NUMBER"
	ValueTypeBoolean ValueType = "BOOLEAN"
	ValueTypeJSON    ValueType = "JSON"
)

// Setting is a runtime-tunable key/value pair administered through the API.
type Setting struct {
	id          uint
	key         string
	value       string
	valueType   ValueType
	description string
	isPublic    bool
	updatedBy   string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSetting(key, value string, valueType ValueType, description string, isPublic bool) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrInvalidSettingKey
	}
	if !isValidValueType(valueType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidValueType, valueType)
	}
	if err := validateValue(valueType, value); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Setting{
		key:         key,
		value:       value,
		valueType:   valueType,
		description: description,
		isPublic:    isPublic,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructSetting reconstructs a Setting from the persistence layer.
func ReconstructSetting(
	id uint,
	key, value string,
	valueType ValueType,
	description string,
	isPublic bool,
	updatedBy string,
	createdAt, updatedAt time.Time,
) *Setting {
	return &Setting{
		id:          id,
		key:         key,
		value:       value,
		valueType:   valueType,
		description: description,
		isPublic:    isPublic,
		updatedBy:   updatedBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters
func (s *Setting) ID() uint             { return s.id }
func (s *Setting) Key() string          { return s.key }
func (s *Setting) Value() string        { return s.value }
func (s *Setting) ValueType() ValueType { return s.valueType }
func (s *Setting) Description() string  { return s.description }
func (s *Setting) IsPublic() bool       { return s.isPublic }
func (s *Setting) UpdatedBy() string    { return s.updatedBy }
func (s *Setting) CreatedAt() time.Time { return s.createdAt }
func (s *Setting) UpdatedAt() time.Time { return s.updatedAt }

// SetID sets the setting ID (only for persistence layer use)
func (s *Setting) SetID(id uint) {
	s.id = id
}

// UpdateValue replaces the value after checking it parses as the setting's type.
func (s *Setting) UpdateValue(value, updatedBy string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	if err := validateValue(s.valueType, value); err != nil {
		return err
	}
	s.value = value
	s.updatedBy = updatedBy
	s.updatedAt = biztime.NowUTC()
	return nil
}

// GetIntValue returns the value as an integer
func (s *Setting) GetIntValue() (int, error) {
	if s.value == "" {
		return 0, nil
	}
	return strconv.Atoi(s.value)
}

// GetBoolValue returns the value as a boolean
func (s *Setting) GetBoolValue() (bool, error) {
	if s.value == "" {
		return false, nil
	}
	return strconv.ParseBool(s.value)
}

// TypedValue decodes the value for JSON responses.
func (s *Setting) TypedValue() any {
	switch s.valueType {
	case ValueTypeNumber:
		if f, err := strconv.ParseFloat(s.value, 64); err == nil {
			return f
		}
	case ValueTypeBoolean:
		if b, err := strconv.ParseBool(s.value); err == nil {
			return b
		}
	case ValueTypeJSON:
		var v any
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(s.value, &v); err == nil {
			return v
		}
	}
	return s.value
}

func validateValue(vt ValueType, value string) error {
	switch vt {
	case ValueTypeNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidValueType, value)
		}
	case ValueTypeBoolean:
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValueType, value)
		}
	case ValueTypeJSON:
		if !jsoniter.ConfigCompatibleWithStandardLibrary.Valid([]byte(value)) {
			return fmt.Errorf("%w: value is not valid JSON", ErrInvalidValueType)
		}
	}
	return nil
}

// isValidValueType checks if the value type is valid
func isValidValueType(vt ValueType) bool {
	switch vt {
	case ValueTypeString, ValueTypeNumber, ValueTypeBoolean, ValueTypeJSON:
		return true
	default:
		return false
	}
}
