// Package alert fans a flood warning out to every recipient registered for
// a sector, over SMS and email independently. One recipient's failure never
// affects another recipient or the sibling channel; the caller gets
// aggregate counts of what actually went through.
package alert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NElyse/FPA-Project/internal/metrics"
	"github.com/NElyse/FPA-Project/internal/models"
)

// ErrNoRecipients distinguishes "nothing to do" from a failed dispatch.
var ErrNoRecipients = errors.New("no recipients registered for sector")

const (
	DefaultPhonePrefix = "+25"

	defaultTypeName = "community member"

	emailSubject = "Flood Risk Warning"

	// [TYPE] in a template is replaced with the recipient's type.
	smsTemplate   = "Mwiriwe [TYPE], hari ibyago byo kugwa kw'ibiza (umwuzure) mu Murenge wawe (%s) ku itariki ya %s. Mwitegure, mwirinde."
	emailTemplate = "Dear [TYPE], there is an upcoming flood risk predicted in your community (%s) on %s. Please take necessary precautions."
)

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// RecipientSource is the slice of the store the dispatcher needs.
type RecipientSource interface {
	ListRecipientsByLocation(location string) ([]models.Recipient, error)
}

// Request describes one dispatch: the targeted sector, the prediction that
// triggered it, and an optional operator-supplied message that overrides the
// default wording on both channels.
type Request struct {
	Sector      string
	Result      string
	Date        time.Time
	Probability float64
	Message     string
}

// Outcome aggregates a completed dispatch. Counts reflect successful sends,
// not attempts.
type Outcome struct {
	Considered int
	SMSSent    int
	EmailSent  int
}

type Dispatcher struct {
	recipients  RecipientSource
	sms         SMSSender
	email       EmailSender
	phonePrefix string
}

func NewDispatcher(recipients RecipientSource, sms SMSSender, email EmailSender, phonePrefix string) *Dispatcher {
	if phonePrefix == "" {
		phonePrefix = DefaultPhonePrefix
	}
	return &Dispatcher{
		recipients:  recipients,
		sms:         sms,
		email:       email,
		phonePrefix: phonePrefix,
	}
}

type channelResult struct {
	sms   bool
	email bool
}

// Dispatch notifies every recipient of the sector. Each recipient runs as
// its own unit of work; results are folded into the outcome on the
// collecting side, so no counter is shared between goroutines.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Outcome, error) {
	recipients, err := d.recipients.ListRecipientsByLocation(req.Sector)
	if err != nil {
		metrics.AlertDispatches.WithLabelValues("error").Inc()
		return Outcome{}, fmt.Errorf("list recipients for %q: %w", req.Sector, err)
	}
	if len(recipients) == 0 {
		metrics.AlertDispatches.WithLabelValues("no_recipients").Inc()
		return Outcome{}, ErrNoRecipients
	}

	runID := uuid.NewString()
	log.Printf("alert %s: dispatching to %d recipient(s) in sector %q", runID, len(recipients), req.Sector)

	results := make(chan channelResult, len(recipients))
	var wg sync.WaitGroup
	for _, rec := range recipients {
		wg.Add(1)
		go func(rec models.Recipient) {
			defer wg.Done()
			results <- d.notifyOne(ctx, runID, rec, req)
		}(rec)
	}
	wg.Wait()
	close(results)

	out := Outcome{Considered: len(recipients)}
	for r := range results {
		if r.sms {
			out.SMSSent++
		}
		if r.email {
			out.EmailSent++
		}
	}

	metrics.AlertDispatches.WithLabelValues("completed").Inc()
	log.Printf("alert %s: done, sms=%d email=%d considered=%d", runID, out.SMSSent, out.EmailSent, out.Considered)
	return out, nil
}

// notifyOne attempts both channels for a single recipient. A recipient with
// neither contact point is skipped but still counted by the caller.
func (d *Dispatcher) notifyOne(ctx context.Context, runID string, rec models.Recipient, req Request) channelResult {
	var res channelResult

	typeName := rec.Type
	if typeName == "" {
		typeName = defaultTypeName
	}
	smsBody, emailBody := buildMessages(req, typeName)

	if rec.Phone != "" {
		to := NormalizePhone(rec.Phone, d.phonePrefix)
		if err := d.sms.SendSMS(ctx, to, smsBody); err != nil {
			metrics.AlertsSent.WithLabelValues("sms", "failure").Inc()
			log.Printf("alert %s: sms to %s failed: %v", runID, to, err)
		} else {
			metrics.AlertsSent.WithLabelValues("sms", "success").Inc()
			res.sms = true
		}
	}

	if rec.Email != "" {
		if err := d.email.SendEmail(ctx, rec.Email, emailSubject, emailBody); err != nil {
			metrics.AlertsSent.WithLabelValues("email", "failure").Inc()
			log.Printf("alert %s: email to %s failed: %v", runID, rec.Email, err)
		} else {
			metrics.AlertsSent.WithLabelValues("email", "success").Inc()
			res.email = true
		}
	}

	return res
}

// buildMessages renders the per-channel bodies. A custom operator message
// replaces both defaults; either way the recipient-type placeholder is
// substituted.
func buildMessages(req Request, typeName string) (smsBody, emailBody string) {
	date := req.Date.Format("02/01/2006")

	if req.Message != "" {
		body := strings.ReplaceAll(req.Message, "[TYPE]", typeName)
		return body, body
	}

	smsBody = strings.ReplaceAll(fmt.Sprintf(smsTemplate, req.Sector, date), "[TYPE]", typeName)
	emailBody = strings.ReplaceAll(fmt.Sprintf(emailTemplate, req.Sector, date), "[TYPE]", typeName)
	return smsBody, emailBody
}

// NormalizePhone prefixes a number with the country code unless it already
// carries one. Best effort only; dispatch never blocks on phone format.
func NormalizePhone(phone, prefix string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return prefix + phone
}
