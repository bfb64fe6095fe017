package mappers

import (
	json "github.com/json-iterator/go"
	"gorm.io/datatypes"
)

// encodeMap returns nil for an empty map so the column stays NULL.
func encodeMap(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

func decodeMap(data datatypes.JSON) (map[string]any, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
