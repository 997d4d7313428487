package services

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func marshalJSON(v interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
