package smssvc

import (
	"context"
	"sync"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

type consoleService struct {
	logger core.Logger
}

var _ core.SMSService = (*consoleService)(nil)

// NewConsoleService logs messages instead of sending them.
func NewConsoleService(logger core.Logger) core.SMSService {
	return &consoleService{logger: logger}
}

func (svc *consoleService) Send(_ context.Context, msg core.SMSMessage) error {
	svc.logger.Info("SMS to "+msg.To, map[string]interface{}{"body": msg.Body})
	return nil
}

// ServiceMock records sent messages; Err, when set, is returned by Send instead.
type ServiceMock struct {
	mu   sync.Mutex
	sent []core.SMSMessage
	Err  error
}

var _ core.SMSService = (*ServiceMock)(nil)

func NewServiceMock() *ServiceMock {
	return &ServiceMock{}
}

func (svc *ServiceMock) Send(_ context.Context, msg core.SMSMessage) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.Err != nil {
		return svc.Err
	}
	svc.sent = append(svc.sent, msg)
	return nil
}

func (svc *ServiceMock) SentMessages() []core.SMSMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.SMSMessage(nil), svc.sent...)
}

func (svc *ServiceMock) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = nil
	svc.Err = nil
}
