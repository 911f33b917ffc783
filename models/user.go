package models

import "encoding/json"

// User представляет пользователя блога в том виде, в каком его отдает API.
// Автор поста или комментария может прийти частично заполненным.
type User struct {
	ID        ID     `json:"id"`
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// UnmarshalJSON принимает идентификатор как из "id", так и из "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		MongoID ID `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	u.ID = fallbackID(u.ID, aux.MongoID)
	return nil
}

// DisplayName возвращает имя для отображения автора.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return "Unknown"
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return "Unknown"
	}
}

// Greeting возвращает имя для приветствия в навигации.
func (u *User) Greeting() string {
	if u != nil && u.FirstName != "" {
		return u.FirstName
	}
	return u.DisplayName()
}

// SameUser сообщает, что оба пользователя заданы и совпадают по идентификатору.
// nil или пустой идентификатор никогда не дают совпадения.
func SameUser(a, b *User) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ID.IsZero() || b.ID.IsZero() {
		return false
	}
	return a.ID == b.ID
}

// SignupRequest представляет тело запроса на регистрацию.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest представляет тело запроса на вход.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse представляет тело ответа на вход или регистрацию.
// User может отсутствовать, тогда профиль запрашивается отдельно.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}
