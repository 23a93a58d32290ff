package webclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		hash string
		view View
		id   int64
	}{
		{"", ViewHome, 0},
		{"#", ViewHome, 0},
		{"#home", ViewHome, 0},
		{"#all-posts", ViewAllPosts, 0},
		{"#post/12", ViewPost, 12},
		{"post/12", ViewPost, 12},
		{"#post/abc", ViewPost, 0},
		{"#post/-4", ViewPost, 0},
		{"#create", ViewCreatePost, 0},
		{"#create-post", ViewCreatePost, 0},
		{"#edit-post/3", ViewEditPost, 3},
	}

	for _, tt := range tests {
		t.Run(tt.hash, func(t *testing.T) {
			view, id := ParseRoute(tt.hash)
			assert.Equal(t, tt.view, view)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestRoutePathRoundTrip(t *testing.T) {
	assert.Equal(t, "#post/7", RoutePath(ViewPost, 7))
	assert.Equal(t, "#contact", RoutePath(ViewContact, 0))

	view, id := ParseRoute(RoutePath(ViewEditPost, 9))
	assert.Equal(t, ViewEditPost, view)
	assert.EqualValues(t, 9, id)
}

func TestAdminOnlyViews(t *testing.T) {
	assert.True(t, ViewCreatePost.adminOnly())
	assert.True(t, ViewEditPost.adminOnly())
	for _, v := range []View{ViewHome, ViewAllPosts, ViewPost, ViewContact} {
		assert.False(t, v.adminOnly(), v)
	}
}
