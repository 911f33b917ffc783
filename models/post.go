package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Длина выдержки из тела поста, если сервер не прислал excerpt.
const excerptLength = 150

// Post представляет пост блога.
type Post struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Author    *User     `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnmarshalJSON принимает идентификатор как из "id", так и из "_id".
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	var aux struct {
		plain
		MongoID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Post(aux.plain)
	p.ID = fallbackID(p.ID, aux.MongoID)
	return nil
}

// Summary возвращает выдержку для списка постов.
func (p Post) Summary() string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	if p.Body == "" {
		return ""
	}
	runes := []rune(p.Body)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}

// Edited сообщает, что пост изменялся после создания.
func (p Post) Edited() bool {
	return !p.UpdatedAt.IsZero() && !p.UpdatedAt.Equal(p.CreatedAt)
}

// GetID возвращает идентификатор поста.
func (p Post) GetID() ID {
	return p.ID
}

// PostInput - данные формы создания и редактирования поста.
type PostInput struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Excerpt string   `json:"excerpt,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ParseTags разбирает теги, введенные через запятую.
// Пустые элементы и повторы отбрасываются, порядок сохраняется.
func ParseTags(raw string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimPrefix(strings.TrimSpace(part), "#")
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
