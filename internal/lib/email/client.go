// Package email sends transactional email through Resend.
//
// Message bodies are rendered from HTML templates embedded in the binary.
package email

import (
	"context"
	"fmt"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// DefaultSender is the From header used for every message.
const DefaultSender = "Jobly <onboarding@resend.dev>"

// Sender is the part of the Resend API the client uses.
// *resend.Client's Emails service satisfies it.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and hands the result to Resend.
type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient creates a Client authenticated with the configured Resend API key.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return NewClientWithSender(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, logger)
}

// NewClientWithSender creates a Client on top of an existing sender.
func NewClientWithSender(sender Sender, logger *zerolog.Logger) *Client {
	return &Client{
		sender: sender,
		from:   DefaultSender,
		logger: logger,
	}
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data map[string]string) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	sent, err := c.sender.SendWithContext(ctx, params)
	if err != nil {
		return errors.Wrapf(err, "failed to send %s email", templateName)
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", sent.Id).
		Msg("email sent")

	return nil
}

// SendJobPostedEmail tells to that a new job was posted.
func (c *Client) SendJobPostedEmail(ctx context.Context, to string, posted JobPosted) error {
	data := map[string]string{
		"JobID":         fmt.Sprintf("%d", posted.ID),
		"JobTitle":      posted.Title,
		"CompanyHandle": posted.CompanyHandle,
	}

	return c.SendEmail(
		ctx,
		to,
		fmt.Sprintf("New job posted: %s", posted.Title),
		TemplateJobPosted,
		data,
	)
}

// JobPosted is the data the job-posted notification needs.
type JobPosted struct {
	ID            int
	Title         string
	CompanyHandle string
}
