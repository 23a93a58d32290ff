package services

import (
	"fmt"
	"strings"

	"github.com/rpupo63/personal-blog-backend/config"
)

// GetBaseURL retrieves the public site URL used in outbound links.
// BLOG_BASE_URL is accepted as a fallback for older deployments.
func GetBaseURL(cfg map[string]string) string {
	if baseURL := config.GetString(cfg, "BASE_URL", ""); baseURL != "" {
		return baseURL
	}
	return config.GetString(cfg, "BLOG_BASE_URL", "")
}

// BuildPostURL constructs a post URL from base URL and post ID
// Parameters:
//   - baseURL: The base URL (e.g., "https://example.com")
//   - postID: The post ID
//
// Returns:
//   - The full post URL (e.g., "https://example.com/posts/42"), or "" without a base URL
func BuildPostURL(baseURL string, postID int64) string {
	if baseURL == "" || postID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/posts/%d", strings.TrimSuffix(baseURL, "/"), postID)
}
