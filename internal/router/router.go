// Package router разбирает пути навигации клиента и охраняет защищенные экраны.
package router

import (
	"net/url"
	"strings"

	"github.com/maynagashev/gophblog/models"
)

// Name - имя маршрута.
type Name int

const (
	Home       Name = iota // "/" - список постов
	Login                  // "/login"
	Signup                 // "/signup"
	PostDetail             // "/post/:id"
	CreatePost             // "/create-post"
	EditPost               // "/edit-post/:id"
)

// Пути маршрутов.
const (
	PathHome       = "/"
	PathLogin      = "/login"
	PathSignup     = "/signup"
	PathCreatePost = "/create-post"
	prefixPost     = "post"
	prefixEditPost = "edit-post"
)

var names = map[Name]string{
	Home:       "home",
	Login:      "login",
	Signup:     "signup",
	PostDetail: "post",
	CreatePost: "create-post",
	EditPost:   "edit-post",
}

func (n Name) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return "unknown"
}

// Route - разобранный маршрут.
type Route struct {
	Name   Name
	PostID models.ID // Только для PostDetail и EditPost
}

// Protected сообщает, что маршрут доступен только после входа.
func (r Route) Protected() bool {
	return r.Name == CreatePost || r.Name == EditPost
}

// Path возвращает путь маршрута.
func (r Route) Path() string {
	switch r.Name {
	case Login:
		return PathLogin
	case Signup:
		return PathSignup
	case CreatePost:
		return PathCreatePost
	case PostDetail:
		return "/" + prefixPost + "/" + url.PathEscape(r.PostID.String())
	case EditPost:
		return "/" + prefixEditPost + "/" + url.PathEscape(r.PostID.String())
	default:
		return PathHome
	}
}

func (r Route) String() string {
	return r.Path()
}

// PostPath возвращает путь к экрану поста.
func PostPath(id models.ID) string {
	return Route{Name: PostDetail, PostID: id}.Path()
}

// EditPostPath возвращает путь к экрану редактирования поста.
func EditPostPath(id models.ID) string {
	return Route{Name: EditPost, PostID: id}.Path()
}

// Parse разбирает путь. Неизвестные пути ведут на главную.
func Parse(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Route{Name: Home}
	}

	parts := strings.Split(trimmed, "/")
	switch {
	case len(parts) == 1 && parts[0] == "login":
		return Route{Name: Login}
	case len(parts) == 1 && parts[0] == "signup":
		return Route{Name: Signup}
	case len(parts) == 1 && parts[0] == "create-post":
		return Route{Name: CreatePost}
	case len(parts) == 2 && parts[0] == prefixPost:
		if id, ok := parseID(parts[1]); ok {
			return Route{Name: PostDetail, PostID: id}
		}
	case len(parts) == 2 && parts[0] == prefixEditPost:
		if id, ok := parseID(parts[1]); ok {
			return Route{Name: EditPost, PostID: id}
		}
	}
	return Route{Name: Home}
}

func parseID(segment string) (models.ID, bool) {
	id, err := url.PathUnescape(segment)
	if err != nil || id == "" {
		return "", false
	}
	return models.ID(id), true
}

// Guard пропускает маршрут или перенаправляет на экран входа,
// если маршрут защищен, а пользователь не аутентифицирован.
func Guard(r Route, authenticated bool) Route {
	if r.Protected() && !authenticated {
		return Route{Name: Login}
	}
	return r
}
