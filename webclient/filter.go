package webclient

import (
	"sort"
	"strings"

	"github.com/rpupo63/personal-blog-backend/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder selects the ordering of the all-posts list.
type SortOrder string

const (
	SortRecent   SortOrder = "recent"
	SortOldest   SortOrder = "oldest"
	SortTitle    SortOrder = "title"
	SortAuthor   SortOrder = "author"
	SortCategory SortOrder = "category"
)

// Query is the search box, category dropdown and sort selector of the all-posts view.
type Query struct {
	Term     string
	Category string
	Sort     SortOrder
}

// FilterPosts keeps posts whose title, author, content or category contains the term
// (case-insensitive) and, when a category is selected, whose category equals it. The
// input slice is not modified.
func FilterPosts(posts []models.Post, q Query) []models.Post {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	category := strings.TrimSpace(q.Category)

	filtered := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		filtered = append(filtered, p)
	}

	SortPosts(filtered, q.Sort)
	return filtered
}

func matchesTerm(p models.Post, term string) bool {
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Author), term) ||
		strings.Contains(strings.ToLower(p.Content), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

// SortPosts orders posts in place. Text keys use English collation, so case and
// accents sort the way readers expect.
func SortPosts(posts []models.Post, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(posts, func(i, j int) bool {
			if posts[i].CreationDate.Equal(posts[j].CreationDate) {
				return posts[i].ID < posts[j].ID
			}
			return posts[i].CreationDate.Before(posts[j].CreationDate)
		})
	case SortTitle, SortAuthor, SortCategory:
		key := func(p models.Post) string {
			switch order {
			case SortTitle:
				return p.Title
			case SortAuthor:
				return p.Author
			default:
				return p.Category
			}
		}
		c := collate.New(language.English)
		sort.SliceStable(posts, func(i, j int) bool {
			return c.CompareString(key(posts[i]), key(posts[j])) < 0
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			if posts[i].CreationDate.Equal(posts[j].CreationDate) {
				return posts[i].ID > posts[j].ID
			}
			return posts[i].CreationDate.After(posts[j].CreationDate)
		})
	}
}

// Categories lists the distinct categories of posts in collation order.
func Categories(posts []models.Post) []string {
	seen := map[string]bool{}
	categories := []string{}
	for _, p := range posts {
		if p.Category == "" || seen[strings.ToLower(p.Category)] {
			continue
		}
		seen[strings.ToLower(p.Category)] = true
		categories = append(categories, p.Category)
	}
	collate.New(language.English).SortStrings(categories)
	return categories
}
