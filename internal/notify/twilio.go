package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const twilioPlaceholderSID = "YOUR_TWILIO_ACCOUNT_SID"

// Twilio sends SMS alerts through the Twilio Messages REST API.
type Twilio struct {
	AccountSID string
	AuthToken  string
	From       string
	To         []string
	BaseURL    string // overridable for tests
	Client     *http.Client
}

// NewTwilio returns a configured channel, or nil when the credentials
// are missing or still the placeholders from a default config.
func NewTwilio(accountSID, authToken, from string, to []string) *Twilio {
	if accountSID == "" || authToken == "" || from == "" || len(to) == 0 {
		return nil
	}
	if accountSID == twilioPlaceholderSID {
		return nil
	}
	return &Twilio{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		To:         to,
		BaseURL:    "https://api.twilio.com",
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Twilio) Name() string { return "sms" }

// Send delivers the alert to every configured number. One accepted
// message counts as success; per-number failures are combined into the
// returned error otherwise.
func (t *Twilio) Send(ctx context.Context, a Alert) error {
	body := fmt.Sprintf(
		"Server Alert\n\nServer: %s\nHost: %s\nStatus: %s\nDetails: %s\nTime: %s",
		a.ServerName, a.Host, strings.ToUpper(string(a.Status)), a.Detail,
		a.At.Format("2006-01-02 15:04:05"),
	)

	sent := 0
	var errs error
	for _, to := range t.To {
		if err := t.sendOne(ctx, to, body); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("to %s: %w", to, err))
			continue
		}
		sent++
	}
	if sent > 0 {
		return nil
	}
	return errs
}

func (t *Twilio) sendOne(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.BaseURL, t.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
