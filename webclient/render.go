package webclient

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rpupo63/personal-blog-backend/models"
)

// Panel ids filled by the renderer.
const (
	PanelRecentPosts  = "recent-posts-container"
	PanelAllPosts     = "all-posts-container"
	PanelResultsCount = "search-results-count"
	PanelPostContent  = "post-content"
	PanelComments     = "comments-list"
	PanelPostForm     = "post-form"
	PanelContact      = "contact"
)

const (
	recentPostCount = 3
	excerptLength   = 150
)

// Document is one rendered frame: the visible view and the HTML of its panels.
type Document struct {
	Visible   View
	Fragments map[string]string
	Message   string
	Loading   bool
	Admin     bool
}

var pageTemplates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"excerpt":   excerpt,
	"shortDate": func(t time.Time) string { return t.Local().Format("Jan 2, 2006") },
	"longDate":  func(t time.Time) string { return t.Local().Format("January 2, 2006 at 03:04 PM") },
	"body":      func(s string) template.HTML { return template.HTML(strings.ReplaceAll(s, "\n", "<br>")) },
	"route":     RoutePath,
	"postView":  func() View { return ViewPost },
	"editView":  func() View { return ViewEditPost },
}).Parse(`
{{define "card"}}<article class="post-card" data-id="{{.ID}}">
<div class="post-category">{{.Category}}</div>
<h3><a href="{{route postView .ID}}">{{.Title}}</a></h3>
<div class="post-meta"><span>By {{.Author}}</span><span>•</span><span>{{shortDate .CreationDate}}</span></div>
<p class="post-excerpt">{{excerpt .}}</p>
<div class="post-stats"><span class="likes">{{.Likes}} likes</span><span class="shares">{{.Shares}} shares</span></div>
</article>{{end}}

{{define "recent"}}{{if .}}<div class="posts-grid">{{range .}}{{template "card" .}}{{end}}</div>{{else}}<div class="empty-state"><p class="empty-message">No posts yet. Check back soon for updates!</p></div>{{end}}{{end}}

{{define "all"}}{{if .}}<div class="posts-grid">{{range .}}{{template "card" .}}{{end}}</div>{{else}}<div class="empty-state"><p class="empty-message">No posts match your search criteria.</p></div>{{end}}{{end}}

{{define "detail"}}<div class="article-header">
<h1 class="article-title">{{.Post.Title}}</h1>
<div class="article-meta"><div class="article-info"><span>By {{.Post.Author}}</span><span>•</span><span>{{longDate .Post.CreationDate}}</span><span>•</span><span>{{.Post.Category}}</span></div>
{{if .Admin}}<div class="article-actions"><a class="btn btn-secondary" href="{{route editView .Post.ID}}">Edit</a><button class="btn btn-secondary" data-action="delete-post" data-id="{{.Post.ID}}">Delete</button></div>{{end}}
</div></div>
{{with .Post.FeaturedImage}}<img class="featured-image" src="{{.}}" alt="">{{end}}
<div class="article-content">{{body .Post.Content}}</div>
<div class="article-stats"><button data-action="like" data-id="{{.Post.ID}}">{{.Post.Likes}} likes</button><button data-action="share" data-id="{{.Post.ID}}">{{.Post.Shares}} shares</button></div>{{end}}

{{define "comments"}}{{if .Comments}}{{range .Comments}}<div class="comment-item">
<div class="comment-header"><span class="comment-author">{{.Author}}</span>{{if $.Admin}}<button class="comment-delete" data-action="delete-comment" data-id="{{.ID}}">Delete</button>{{end}}</div>
<p class="comment-content">{{.Content}}</p>
</div>{{end}}{{else}}<p class="empty-message">No comments yet. Be the first to comment!</p>{{end}}{{end}}

{{define "form"}}<h2 id="formTitle">{{if .}}Edit Post{{else}}Create New Post{{end}}</h2>
<form id="postForm">
<input id="postTitle" name="title" value="{{with .}}{{.Title}}{{end}}">
<input id="postAuthor" name="author" value="{{with .}}{{.Author}}{{end}}">
<input id="postCategory" name="category" value="{{with .}}{{.Category}}{{end}}">
<textarea id="postContent" name="content">{{with .}}{{.Content}}{{end}}</textarea>
<button id="submitBtn" type="submit">{{if .}}Update Post{{else}}Publish Post{{end}}</button>
{{if .}}<button id="deleteBtn" data-action="delete-post" data-id="{{.ID}}">Delete</button>{{end}}
</form>{{end}}

{{define "contact"}}<div class="contact"><h2>Contact</h2><p>Questions or feedback? Leave a comment on any post.</p></div>{{end}}
`))

// excerpt prefers the stored excerpt and otherwise cuts the content.
func excerpt(p models.Post) string {
	if p.Excerpt != nil && *p.Excerpt != "" {
		return *p.Excerpt
	}
	runes := []rune(p.Content)
	if len(runes) <= excerptLength {
		return p.Content
	}
	return string(runes[:excerptLength]) + "..."
}

// Render builds the Document for a state. Only the visible view's panels are filled.
func Render(st State) (Document, error) {
	doc := Document{
		Visible:   st.View,
		Fragments: map[string]string{},
		Message:   st.Message,
		Loading:   st.Loading,
		Admin:     st.Admin,
	}

	fill := func(panel, name string, data any) error {
		var buf bytes.Buffer
		if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
			return fmt.Errorf("render %s: %w", panel, err)
		}
		doc.Fragments[panel] = buf.String()
		return nil
	}

	switch st.View {
	case ViewHome:
		recent := st.Posts
		if len(recent) > recentPostCount {
			recent = recent[:recentPostCount]
		}
		return doc, fill(PanelRecentPosts, "recent", recent)
	case ViewAllPosts:
		visible := FilterPosts(st.Posts, st.Query)
		doc.Fragments[PanelResultsCount] = fmt.Sprintf("Showing %d of %d posts", len(visible), len(st.Posts))
		return doc, fill(PanelAllPosts, "all", visible)
	case ViewPost:
		if st.Current == nil {
			return doc, nil
		}
		data := struct {
			Post     *models.Post
			Comments []models.Comment
			Admin    bool
		}{st.Current, st.Comments, st.Admin}
		if err := fill(PanelPostContent, "detail", data); err != nil {
			return doc, err
		}
		return doc, fill(PanelComments, "comments", data)
	case ViewCreatePost:
		return doc, fill(PanelPostForm, "form", (*models.Post)(nil))
	case ViewEditPost:
		if st.Current == nil {
			return doc, nil
		}
		return doc, fill(PanelPostForm, "form", st.Current)
	case ViewContact:
		return doc, fill(PanelContact, "contact", nil)
	}
	return doc, nil
}
