package notify

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
)

var ErrNoPhone = errors.New("student or phone number not found")

type (
	ServiceInterface interface {
		// NotifyParent texts message to the phone number on record for the student.
		// An e-mail copy goes to the guardian address when there is one.
		NotifyParent(ctx context.Context, studentID, message string) error
	}

	service struct {
		stdSvc  student.ServiceInterface
		smsSvc  core.SMSService
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(stdSvc student.ServiceInterface, smsSvc core.SMSService, mailSvc core.EmailService) ServiceInterface {
	return &service{
		stdSvc:  stdSvc,
		smsSvc:  smsSvc,
		mailSvc: mailSvc,
	}
}

func (svc *service) NotifyParent(ctx context.Context, studentID, message string) error {
	std, err := svc.stdSvc.GetByID(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return ErrNoPhone
		}
		return errors.Wrap(err, "finding student")
	}
	if std.Phone == "" {
		return ErrNoPhone
	}

	if err := svc.smsSvc.Send(ctx, core.SMSMessage{To: std.Phone, Body: message}); err != nil {
		return err
	}

	if std.Email != "" && svc.mailSvc != nil {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:          []mail.Address{{Address: std.Email}},
			Subject:     fmt.Sprintf("Message about %s (%s)", std.Name, std.Register),
			TextContent: message,
		})
	}
	return nil
}
