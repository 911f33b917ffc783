package models

import (
	"encoding/json"
	"time"
)

// Comment представляет комментарий к посту.
// Пост, к которому относится комментарий, определяется маршрутом.
type Comment struct {
	ID        ID        `json:"id"`
	Content   string    `json:"content"`
	Author    *User     `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UnmarshalJSON принимает идентификатор как из "id", так и из "_id".
func (c *Comment) UnmarshalJSON(data []byte) error {
	type plain Comment
	var aux struct {
		plain
		MongoID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Comment(aux.plain)
	c.ID = fallbackID(c.ID, aux.MongoID)
	return nil
}

// Edited сообщает, что комментарий изменялся после создания.
func (c Comment) Edited() bool {
	return !c.UpdatedAt.IsZero() && !c.UpdatedAt.Equal(c.CreatedAt)
}

// GetID возвращает идентификатор комментария.
func (c Comment) GetID() ID {
	return c.ID
}

// CommentInput - тело запроса на создание и изменение комментария.
type CommentInput struct {
	Content string `json:"content"`
}
