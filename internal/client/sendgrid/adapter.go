package sendgridclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/dto"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
	"github.com/TommySini/college-admissions-activities-verifier-sub000/pkg/logger"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

type Adapter struct {
	key  string
	host string
	from *sgmail.Email
	log  *slog.Logger
}

func NewAdapter(log *slog.Logger, key, appName, fromEmail string) *Adapter {
	return &Adapter{
		key:  key,
		host: defaultHost,
		from: sgmail.NewEmail(appName, fromEmail),
		log:  log,
	}
}

// WithHost points the adapter at another API host.
func (a *Adapter) WithHost(host string) *Adapter {
	a.host = host
	return a
}

// Send delivers one message. Without an API key the message is only logged, which
// keeps local runs and the emulator setup free of outbound mail.
func (a *Adapter) Send(ctx context.Context, msg dto.Email) error {
	log := logger.FromContext(ctx)
	if a.key == "" {
		log.Info("mail delivery disabled, message dropped", "to", msg.ToEmail, "subject", msg.Subject)
		return nil
	}

	req := sendgrid.GetRequest(a.key, endpoint, a.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(a.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return errs.NewExternalServiceError("sendgrid", "failed to send email", true, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		transient := res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError
		return errs.NewExternalServiceError("sendgrid", "email rejected", transient,
			fmt.Errorf("status %d: %s", res.StatusCode, res.Body))
	}

	log.Debug("email sent", "to", msg.ToEmail, "status", res.StatusCode)
	return nil
}

func (a *Adapter) prepare(msg dto.Email) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(a.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}
