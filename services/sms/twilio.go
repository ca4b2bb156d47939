package smssvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

type twilioService struct {
	client *twilio.RestClient
	from   string
}

var _ core.SMSService = (*twilioService)(nil)

func NewTwilioService(conf *core.Config) core.SMSService {
	return &twilioService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: conf.Twilio.AccountSID,
			Password: conf.Twilio.AuthToken,
		}),
		from: conf.Twilio.From,
	}
}

func (svc *twilioService) Send(ctx context.Context, msg core.SMSMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if svc.from == "" {
		return errors.New("twilio sender number is not configured")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(svc.from)
	params.SetBody(msg.Body)

	_, err := svc.client.Api.CreateMessage(params)
	return err
}
