package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// WrongAnswers stores a history entry's missed questions as a JSON column.
type WrongAnswers []entity.WrongAnswer

// Scan implements sql.Scanner
func (v *WrongAnswers) Scan(src any) error {
	if src == nil {
		*v = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		if len(data) == 0 {
			*v = nil
			return nil
		}
		return json.Unmarshal(data, v)
	case string:
		if data == "" {
			*v = nil
			return nil
		}
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("WrongAnswers: unsupported src type %T", src)
	}
}

// Value implements driver.Valuer
func (v WrongAnswers) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]entity.WrongAnswer(v))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
