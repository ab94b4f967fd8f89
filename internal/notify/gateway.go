package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/zylm/internal/apperr"
	"github.com/example/zylm/internal/config"
	"github.com/example/zylm/internal/models"
	"github.com/example/zylm/internal/utils"
)

// SubmissionMarker flags a submission once its email went out.
type SubmissionMarker interface {
	MarkNotified(ctx context.Context, id uuid.UUID) error
}

// Options configures a Gateway. Zero Timeout and Backoff take defaults; a
// nil Telegram disables that channel.
type Options struct {
	SMS         SMSProvider
	Mailer      Mailer
	Telegram    *TelegramNotifier
	Submissions SubmissionMarker
	Recipient   string
	UploadDir   string
	Timeout     time.Duration
	Retries     uint64
	Backoff     time.Duration
}

// Gateway dispatches SMS, email and Telegram notifications and records
// every dispatch in the notifications table.
type Gateway struct {
	db   *gorm.DB
	log  *zap.Logger
	opts Options
	wg   sync.WaitGroup
}

func NewGateway(db *gorm.DB, log *zap.Logger, opts Options) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SMS == nil {
		opts.SMS = NewLogProvider(log)
	}
	if opts.Mailer == nil {
		opts.Mailer = unconfiguredMailer{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Gateway{db: db, log: log.Named("notify"), opts: opts}
}

// FromConfig builds a Gateway with the providers cfg selects.
func FromConfig(cfg *config.Config, db *gorm.DB, log *zap.Logger, subs SubmissionMarker) *Gateway {
	client := &http.Client{Timeout: cfg.NotifyTimeout}

	var sms SMSProvider = NewLogProvider(log)
	if cfg.SMSProvider == "dlt" {
		sms = NewDLTProvider(DLTConfig{
			APIKey:     cfg.DLTAPIKey,
			TemplateID: cfg.DLTTemplateID,
			EntityID:   cfg.DLTEntityID,
			SenderID:   cfg.DLTSenderID,
			APIURL:     cfg.DLTAPIURL,
		}, client)
	}

	var mailer Mailer = unconfiguredMailer{}
	if cfg.SMTPConfigured() {
		mailer = NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		})
	}

	return NewGateway(db, log, Options{
		SMS:         sms,
		Mailer:      mailer,
		Telegram:    NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramAdminChat, client),
		Submissions: subs,
		Recipient:   cfg.RecipientEmail,
		UploadDir:   cfg.UploadDir,
		Timeout:     cfg.NotifyTimeout,
		Retries:     uint64(cfg.NotifyRetries),
	})
}

// Features reports which channels can actually deliver.
func (g *Gateway) Features() map[string]bool {
	_, mailOff := g.opts.Mailer.(unconfiguredMailer)
	return map[string]bool{
		"sms":      true,
		"email":    !mailOff,
		"telegram": g.opts.Telegram != nil,
	}
}

// SMSProviderName is the name of the active SMS provider.
func (g *Gateway) SMSProviderName() string {
	return g.opts.SMS.Name()
}

// SendSMS delivers message to phone and reports success. The message body is
// never recorded since it may carry a one-time code.
func (g *Gateway) SendSMS(ctx context.Context, phone, message string) bool {
	attempts, err := g.dispatch(ctx, func(ctx context.Context) error {
		return g.opts.SMS.Send(ctx, phone, message)
	})
	g.record(ctx, models.Notification{
		Channel:   models.ChannelSMS,
		Recipient: maskPhone(phone),
		Subject:   g.opts.SMS.Name(),
	}, attempts, err)
	return err == nil
}

// SendEmail emails the recipient about sub and reports success. On success
// the submission is marked notified.
func (g *Gateway) SendEmail(ctx context.Context, sub *models.FormSubmission) bool {
	email, err := RenderSubmissionEmail(sub, g.opts.Recipient)
	if err != nil {
		g.log.Error("render submission email", zap.String("submission_id", sub.ID.String()), zap.Error(err))
		return false
	}
	email.Attachments = g.attachments(sub)

	attempts, err := g.dispatch(ctx, func(ctx context.Context) error {
		return g.opts.Mailer.Send(ctx, email)
	})
	g.record(ctx, models.Notification{
		Channel:      models.ChannelEmail,
		Recipient:    g.opts.Recipient,
		Subject:      email.Subject,
		SubmissionID: &sub.ID,
	}, attempts, err)
	if err != nil {
		return false
	}

	if g.opts.Submissions != nil {
		if err := g.opts.Submissions.MarkNotified(ctx, sub.ID); err != nil {
			g.log.Error("mark submission notified", zap.String("submission_id", sub.ID.String()), zap.Error(err))
		}
	}
	return true
}

func (g *Gateway) sendTelegram(ctx context.Context, sub *models.FormSubmission) bool {
	tg := g.opts.Telegram
	if tg == nil {
		return false
	}
	rows := SubmissionRows(sub)
	attempts, err := g.dispatch(ctx, func(ctx context.Context) error {
		return tg.NotifyNewSubmission(ctx, sub, rows)
	})
	g.record(ctx, models.Notification{
		Channel:      models.ChannelTelegram,
		Recipient:    tg.Recipient(),
		Subject:      "New " + sub.Type + " form submission",
		SubmissionID: &sub.ID,
	}, attempts, err)
	return err == nil
}

// NotifySubmission sends the email and Telegram alerts for sub in the
// background. Use Wait to drain pending dispatches.
func (g *Gateway) NotifySubmission(sub models.FormSubmission) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.log.Error("notification panic", zap.Any("panic", r), zap.String("submission_id", sub.ID.String()))
			}
		}()

		ctx := context.Background()
		g.SendEmail(ctx, &sub)
		g.sendTelegram(ctx, &sub)
	}()
}

// Wait blocks until every dispatch started by NotifySubmission has finished.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

// History lists recorded dispatches newest first.
func (g *Gateway) History(ctx context.Context, channel, status string, pg utils.Pagination) ([]models.Notification, int64, error) {
	query := g.db.WithContext(ctx).Model(&models.Notification{})
	if channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage("count notifications", err)
	}

	var out []models.Notification
	if err := query.Order("created_at desc").Limit(pg.Limit).Offset(pg.Offset).Find(&out).Error; err != nil {
		return nil, 0, apperr.Storage("list notifications", err)
	}
	return out, total, nil
}

// dispatch runs send with a per-attempt timeout and exponential backoff.
// Channels reporting ErrNotConfigured are not retried; other failures come
// back wrapped in apperr.ErrNotification.
func (g *Gateway) dispatch(ctx context.Context, send func(context.Context) error) (int, error) {
	attempts := 0
	backoff := retry.WithMaxRetries(g.opts.Retries, retry.NewExponential(g.opts.Backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()

		err := send(attemptCtx)
		if err == nil || errors.Is(err, ErrNotConfigured) {
			return err
		}
		return retry.RetryableError(err)
	})
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		err = apperr.Wrap(apperr.ErrNotification, fmt.Sprintf("delivery failed after %d attempts", attempts), err)
	}
	return attempts, err
}

func (g *Gateway) record(ctx context.Context, n models.Notification, attempts int, err error) {
	n.Attempts = attempts
	switch {
	case err == nil:
		n.Status = models.NotificationSent
	case errors.Is(err, ErrNotConfigured):
		n.Status = models.NotificationSkipped
		n.Error = err.Error()
	default:
		n.Status = models.NotificationFailed
		n.Error = err.Error()
	}

	fields := []zap.Field{
		zap.String("channel", n.Channel),
		zap.String("status", n.Status),
		zap.Int("attempts", attempts),
	}
	if n.SubmissionID != nil {
		fields = append(fields, zap.String("submission_id", n.SubmissionID.String()))
	}
	switch n.Status {
	case models.NotificationFailed:
		g.log.Warn("notification failed", append(fields, zap.Error(err))...)
	case models.NotificationSkipped:
		g.log.Debug("notification skipped", fields...)
	default:
		g.log.Info("notification sent", fields...)
	}

	if g.db == nil {
		return
	}
	if err := g.db.WithContext(context.WithoutCancel(ctx)).Create(&n).Error; err != nil {
		g.log.Error("record notification", zap.String("channel", n.Channel), zap.Error(err))
	}
}

func (g *Gateway) attachments(sub *models.FormSubmission) []string {
	if strings.TrimSpace(sub.CVPath) == "" {
		return nil
	}
	path, ok := resumePath(g.opts.UploadDir, sub.CVPath)
	if !ok {
		g.log.Warn("resume path rejected", zap.String("cv_path", sub.CVPath))
		return nil
	}
	if !fileExists(path) {
		g.log.Warn("resume file missing", zap.String("cv_path", sub.CVPath), zap.String("file", path))
		return nil
	}
	return []string{path}
}
