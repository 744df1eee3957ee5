package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"salonbook-backend/config"
)

// SMSSender delivers a text message and returns the provider's message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// LogSender writes messages to the log instead of sending them. It is used when
// no Twilio credentials are configured.
type LogSender struct {
	log logrus.FieldLogger
}

func (l LogSender) Send(_ context.Context, to, body string) (string, error) {
	l.log.WithFields(logrus.Fields{"to": to, "channel": "sms"}).Info(body)
	return "", nil
}

func NewSMSSender(cfg *config.Config, log logrus.FieldLogger) SMSSender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		log.Warn("Twilio credentials not set, SMS messages will only be logged")
		return LogSender{log: log}
	}
	return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
}
