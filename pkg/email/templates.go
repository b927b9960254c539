package email

import (
	"bytes"
	"html/template"
)

// TemplateManager holds the parsed notification templates.
type TemplateManager struct {
	commentTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	commentTmpl, err := template.New("comment").Parse(commentNotificationTemplate)
	if err != nil {
		return nil, err
	}
	return &TemplateManager{commentTmpl: commentTmpl}, nil
}

// CommentData holds the dynamic data for the comment notification email.
type CommentData struct {
	TripTitle string
	Nickname  string
	Comment   string
	Link      string
}

// GenerateCommentEmailHTML executes the comment notification template.
func (tm *TemplateManager) GenerateCommentEmailHTML(data CommentData) (string, error) {
	var body bytes.Buffer
	if err := tm.commentTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

const commentNotificationTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>New Comment on Your Trip</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>{{.Nickname}} commented on "{{.TripTitle}}"</h2>
	<blockquote>{{.Comment}}</blockquote>
	<p><a href="{{.Link}}">View the conversation</a></p>
</body>
</html>
`
