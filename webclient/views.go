package webclient

import (
	"fmt"
	"strconv"
	"strings"
)

// View names a client panel.
type View string

const (
	ViewHome       View = "home"
	ViewAllPosts   View = "all-posts"
	ViewPost       View = "post"
	ViewContact    View = "contact"
	ViewCreatePost View = "create-post"
	ViewEditPost   View = "edit-post"
)

func (v View) adminOnly() bool {
	return v == ViewCreatePost || v == ViewEditPost
}

// ParseRoute reads a location hash such as "#post/12". "create" is accepted for create-post.
func ParseRoute(hash string) (View, int64) {
	path := strings.TrimPrefix(strings.TrimSpace(hash), "#")
	if path == "" {
		return ViewHome, 0
	}

	name, rawID, _ := strings.Cut(path, "/")
	view := View(name)
	if view == "create" {
		view = ViewCreatePost
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id < 0 {
		id = 0
	}
	return view, id
}

// RoutePath is the inverse of ParseRoute.
func RoutePath(view View, id int64) string {
	if id > 0 {
		return fmt.Sprintf("#%s/%d", view, id)
	}
	return "#" + string(view)
}
