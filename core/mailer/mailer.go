package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"calendar-api/core/config"
	"calendar-api/core/logger"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	TemplateCalendarInvite = "calendar_invite.html"
	TemplateEventInvite    = "event_invite.html"

	ProviderSES = "ses"
	ProviderLog = "log"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// InviteTemplateData feeds both invite templates.
type InviteTemplateData struct {
	InvitedBy  string
	TargetName string
	Role       string
	AcceptURL  string
	StartsAt   string
	ExpiresAt  string
}

var (
	parseOnce sync.Once
	templates *template.Template
	parseErr  error
)

// Render executes one of the embedded templates.
func Render(name string, data any) (string, error) {
	parseOnce.Do(func() {
		templates, parseErr = template.ParseFS(templateFiles, "templates/*.html")
	})
	if parseErr != nil {
		return "", parseErr
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// New picks the mailer configured by email.provider.
func New(ctx context.Context, cfg config.EmailConfig) (Mailer, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderSES:
		return NewSESMailer(ctx, cfg)
	case ProviderLog, "":
		return NewLogMailer(cfg.From), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

type sesMailer struct {
	client *sesv2.Client
	from   string
}

func NewSESMailer(ctx context.Context, cfg config.EmailConfig) (Mailer, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &sesMailer{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.From,
	}, nil
}

func (m *sesMailer) Send(ctx context.Context, msg Message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &m.from,
		Destination: &types.Destination{
			ToAddresses: msg.To,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &msg.Subject},
				Body: &types.Body{
					Html: &types.Content{Data: &msg.HTML},
				},
			},
		},
	}

	output, err := m.client.SendEmail(ctx, input)
	if err != nil {
		logger.Error("Mailer:SES:SendEmail:Error", "to", msg.To, "error", err)
		return err
	}
	if output == nil || output.MessageId == nil {
		return fmt.Errorf("ses returned no message id")
	}

	logger.Info("Mailer:SES:Sent", "to", msg.To, "message_id", *output.MessageId)
	return nil
}

type logMailer struct {
	from string
}

// NewLogMailer only logs outgoing mail. Used in development and tests.
func NewLogMailer(from string) Mailer {
	return &logMailer{from: from}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	logger.Info("Mailer:Log:Send", "from", m.from, "to", msg.To, "subject", msg.Subject, "bytes", len(msg.HTML))
	return nil
}
