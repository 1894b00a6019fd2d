package mailservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bloglistapp/bloglist/internal/common"
)

func TestSendWelcomeEmail(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)

	mockMC.On("Consume", common.UserRegisteredKey, common.UserExchange, common.UserRegisteredQueue).Return(nil, nil)
	mockLogger.On("Info", "welcome email sent", mock.Anything).Return()

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:     mockMC,
		m:      mockMailer,
		logger: mockLogger,
		ctx:    ctx,
		cancel: cancel,
	}

	s.SendWelcomeEmail()

	// the consumer runs in its own goroutine; give it a moment to drain
	// the mocked delivery
	time.Sleep(1 * time.Second)

	assert.True(t, mockMailer.IsCalled(), "expected a welcome email to be sent")
	assert.Equal(t, "test@example.com", mockMailer.GetEmail())

	mockMC.AssertExpectations(t)
	mockLogger.AssertExpectations(t)

	t.Cleanup(func() {
		s.Close()
	})
}
