package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID - идентификатор сущности API.
// Сервер может прислать его строкой или числом, при декодировании
// оба варианта приводятся к строке.
type ID string

// UnmarshalJSON декодирует идентификатор из строки или числа.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("ошибка декодирования идентификатора: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("идентификатор должен быть строкой или числом: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("некорректный числовой идентификатор %q: %w", n, err)
	}
	*id = ID(n.String())
	return nil
}

// String возвращает строковое представление идентификатора.
func (id ID) String() string {
	return string(id)
}

// IsZero сообщает, что идентификатор не задан.
func (id ID) IsZero() bool {
	return id == ""
}

// fallbackID возвращает основной идентификатор или запасной "_id".
func fallbackID(primary, mongo ID) ID {
	if !primary.IsZero() {
		return primary
	}
	return mongo
}
