package alert_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NElyse/FPA-Project/internal/alert"
	"github.com/NElyse/FPA-Project/internal/models"
)

type fakeRecipients struct {
	list []models.Recipient
	err  error
}

func (f *fakeRecipients) ListRecipientsByLocation(location string) ([]models.Recipient, error) {
	return f.list, f.err
}

type fakeSMS struct {
	mu       sync.Mutex
	sent     []string
	messages []string
	fail     bool
}

func (f *fakeSMS) SendSMS(ctx context.Context, to, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("gateway down")
	}
	f.sent = append(f.sent, to)
	f.messages = append(f.messages, message)
	return nil
}

type fakeEmail struct {
	mu     sync.Mutex
	sent   []string
	bodies []string
	fail   bool
}

func (f *fakeEmail) SendEmail(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, to)
	f.bodies = append(f.bodies, body)
	return nil
}

var testDate = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

func testRequest() alert.Request {
	return alert.Request{
		Sector:      "Gasabo",
		Result:      "Flood Risk",
		Date:        testDate,
		Probability: 0.9,
	}
}

func TestDispatch_NoRecipients(t *testing.T) {
	t.Parallel()
	d := alert.NewDispatcher(&fakeRecipients{}, &fakeSMS{}, &fakeEmail{}, "")

	_, err := d.Dispatch(context.Background(), testRequest())
	if !errors.Is(err, alert.ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
}

func TestDispatch_BothChannels(t *testing.T) {
	t.Parallel()
	recipients := &fakeRecipients{list: []models.Recipient{
		{FullName: "A", Phone: "0788000001", Email: "a@example.com", Type: "farmer"},
		{FullName: "B", Phone: "0788000002", Email: "b@example.com", Type: "leader"},
	}}
	sms := &fakeSMS{}
	email := &fakeEmail{}
	d := alert.NewDispatcher(recipients, sms, email, "")

	out, err := d.Dispatch(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	if out.Considered != 2 || out.SMSSent != 2 || out.EmailSent != 2 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(sms.sent) != 2 || len(email.sent) != 2 {
		t.Fatalf("expected 2 sends per channel, got sms=%d email=%d", len(sms.sent), len(email.sent))
	}
}

func TestDispatch_SMSFailureDoesNotStopEmail(t *testing.T) {
	t.Parallel()
	recipients := &fakeRecipients{list: []models.Recipient{
		{FullName: "A", Phone: "0788000001", Email: "a@example.com"},
	}}
	email := &fakeEmail{}
	d := alert.NewDispatcher(recipients, &fakeSMS{fail: true}, email, "")

	out, err := d.Dispatch(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	if out.SMSSent != 0 {
		t.Errorf("expected 0 SMS sent, got %d", out.SMSSent)
	}
	if out.EmailSent != 1 || len(email.sent) != 1 {
		t.Errorf("email should still go through: %+v", out)
	}
}

func TestDispatch_RecipientWithoutContacts(t *testing.T) {
	t.Parallel()
	recipients := &fakeRecipients{list: []models.Recipient{
		{FullName: "A"},
		{FullName: "B", Email: "b@example.com"},
	}}
	sms := &fakeSMS{}
	email := &fakeEmail{}
	d := alert.NewDispatcher(recipients, sms, email, "")

	out, err := d.Dispatch(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	if out.Considered != 2 {
		t.Errorf("contactless recipient still counts as considered: %+v", out)
	}
	if out.SMSSent != 0 || out.EmailSent != 1 {
		t.Errorf("unexpected counts: %+v", out)
	}
}

func TestDispatch_PhoneNormalization(t *testing.T) {
	t.Parallel()
	recipients := &fakeRecipients{list: []models.Recipient{
		{FullName: "A", Phone: "0788000001"},
		{FullName: "B", Phone: "+250788000002"},
	}}
	sms := &fakeSMS{}
	d := alert.NewDispatcher(recipients, sms, &fakeEmail{}, "")

	if _, err := d.Dispatch(context.Background(), testRequest()); err != nil {
		t.Fatal(err)
	}

	got := map[string]bool{}
	for _, to := range sms.sent {
		got[to] = true
	}
	if !got["+250788000001"] {
		t.Errorf("expected prefixed number, sent to %v", sms.sent)
	}
	if !got["+250788000002"] {
		t.Errorf("number with country code should pass through, sent to %v", sms.sent)
	}
}

func TestDispatch_TemplateSubstitution(t *testing.T) {
	t.Parallel()
	recipients := &fakeRecipients{list: []models.Recipient{
		{FullName: "A", Phone: "0788000001", Email: "a@example.com", Type: "farmer"},
	}}
	sms := &fakeSMS{}
	email := &fakeEmail{}
	d := alert.NewDispatcher(recipients, sms, email, "")

	if _, err := d.Dispatch(context.Background(), testRequest()); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(sms.messages[0], "[TYPE]") {
		t.Errorf("placeholder not substituted: %q", sms.messages[0])
	}
	if !strings.Contains(sms.messages[0], "farmer") {
		t.Errorf("expected recipient type in SMS: %q", sms.messages[0])
	}
	if !strings.Contains(sms.messages[0], "Gasabo") || !strings.Contains(sms.messages[0], "20/03/2025") {
		t.Errorf("expected sector and date in SMS: %q", sms.messages[0])
	}
	if !strings.Contains(email.bodies[0], "Dear farmer") {
		t.Errorf("expected English email body: %q", email.bodies[0])
	}
}

func TestDispatch_DefaultTypeName(t *testing.T) {
	t.Parallel()
	recipients := &fakeRecipients{list: []models.Recipient{
		{FullName: "A", Email: "a@example.com"},
	}}
	email := &fakeEmail{}
	d := alert.NewDispatcher(recipients, &fakeSMS{}, email, "")

	if _, err := d.Dispatch(context.Background(), testRequest()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(email.bodies[0], "Dear community member") {
		t.Errorf("expected fallback type name: %q", email.bodies[0])
	}
}

func TestDispatch_CustomMessageOverridesBoth(t *testing.T) {
	t.Parallel()
	recipients := &fakeRecipients{list: []models.Recipient{
		{FullName: "A", Phone: "0788000001", Email: "a@example.com", Type: "farmer"},
	}}
	sms := &fakeSMS{}
	email := &fakeEmail{}
	d := alert.NewDispatcher(recipients, sms, email, "")

	req := testRequest()
	req.Message = "Evacuate now, [TYPE]."
	if _, err := d.Dispatch(context.Background(), req); err != nil {
		t.Fatal(err)
	}

	if sms.messages[0] != "Evacuate now, farmer." {
		t.Errorf("unexpected SMS body: %q", sms.messages[0])
	}
	if email.bodies[0] != "Evacuate now, farmer." {
		t.Errorf("unexpected email body: %q", email.bodies[0])
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, prefix, want string
	}{
		{"0788123456", "+25", "+250788123456"},
		{"+250788123456", "+25", "+250788123456"},
		{"  0788123456 ", "+25", "+250788123456"},
	}
	for _, tc := range cases {
		if got := alert.NormalizePhone(tc.in, tc.prefix); got != tc.want {
			t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tc.in, tc.prefix, got, tc.want)
		}
	}
}
