package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rs/zerolog/log"
)

const defaultFromAddress = "noreply@blog.com"

// Message is a single outbound HTML email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var (
	newPostTemplate = template.Must(template.New("new-post").Parse(
		`<h2>New Blog Post: {{.Title}}</h2>` +
			`<p>By {{.Author}}</p>` +
			`<div>{{.Content}}</div>` +
			`{{if .URL}}<p><a href="{{.URL}}">Read more on our blog!</a></p>{{else}}<p>Read more on our blog!</p>{{end}}`))

	singlePostTemplate = template.Must(template.New("single-post").Parse(
		`<h2>{{.Title}}</h2>` +
			`<p>By {{.Author}}</p>` +
			`<div>{{.Content}}</div>`))
)

type postView struct {
	Title   string
	Author  string
	Content template.HTML // authored by the admin in the rich text editor
	URL     string
}

// EmailService renders posts into emails. A nil mailer means email is not configured
// and every send is skipped.
type EmailService struct {
	mailer  Mailer
	from    string
	baseURL string
}

func NewEmailService(mailer Mailer, from, baseURL string) *EmailService {
	if from == "" {
		from = defaultFromAddress
	}
	return &EmailService{mailer: mailer, from: from, baseURL: baseURL}
}

// Configured reports whether a mailer is attached.
func (s *EmailService) Configured() bool {
	return s != nil && s.mailer != nil
}

// NotifyNewPost sends one announcement to all recipients. Failures are logged, never returned.
func (s *EmailService) NotifyNewPost(ctx context.Context, post *models.Post, recipients []string) {
	if !s.Configured() {
		log.Info().Msg("Email service not configured. Skipping notification.")
		return
	}
	if len(recipients) == 0 {
		return
	}

	body, err := render(newPostTemplate, post, BuildPostURL(s.baseURL, post.ID))
	if err != nil {
		log.Error().Err(err).Int64("postId", post.ID).Msg("Failed to render new post email")
		return
	}

	msg := Message{
		From:    s.from,
		To:      recipients,
		Subject: fmt.Sprintf("New Post: %s", post.Title),
		HTML:    body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Int64("postId", post.ID).Int("recipients", len(recipients)).Msg("Failed to send new post notification")
		return
	}
	log.Info().Int64("postId", post.ID).Int("recipients", len(recipients)).Msg("Sent new post notification")
}

// SendPost emails a single post to one address and reports delivery failures.
func (s *EmailService) SendPost(ctx context.Context, to string, post *models.Post) error {
	if !s.Configured() {
		log.Info().Str("to", to).Msg("Email service not configured. Skipping send.")
		return nil
	}

	body, err := render(singlePostTemplate, post, "")
	if err != nil {
		return fmt.Errorf("render post email: %w", err)
	}

	msg := Message{
		From:    s.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Blog Post: %s", post.Title),
		HTML:    body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send post %d to %s: %w", post.ID, to, err)
	}
	return nil
}

func render(tmpl *template.Template, post *models.Post, url string) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, postView{
		Title:   post.Title,
		Author:  post.Author,
		Content: template.HTML(post.Content),
		URL:     url,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
