package notification

import (
	"context"
	"errors"
	"net/smtp"

	"github.com/frahmantamala/workforce-management/internal"
	notificationDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SMTPSender", func() {
	var (
		sender *SMTPSender
		addr   string
		to     []string
		body   string
	)

	BeforeEach(func() {
		sender = NewSMTPSender(internal.SMTPConfig{Host: "mail.example.com", Port: 2525, From: "noreply@example.com"})
		sender.sendMail = func(a string, _ smtp.Auth, _ string, rcpt []string, msg []byte) error {
			addr, to, body = a, rcpt, string(msg)
			return nil
		}
	})

	It("should mail the recipient", func() {
		job := Job{
			Notification: &notificationDatamodel.Notification{ID: 1, Message: "Your leave request #1 was approved."},
			Email:        "staff1@example.com",
			Name:         "Staff 1",
		}
		Expect(sender.Send(context.Background(), job)).To(Succeed())
		Expect(addr).To(Equal("mail.example.com:2525"))
		Expect(to).To(ConsistOf("staff1@example.com"))
		Expect(body).To(ContainSubstring("To: Staff 1 <staff1@example.com>"))
		Expect(body).To(ContainSubstring("#1 was approved"))
	})

	It("should fail without an address", func() {
		err := sender.Send(context.Background(), Job{Notification: &notificationDatamodel.Notification{ID: 2}})
		Expect(err).To(MatchError(ContainSubstring("no email address")))
	})

	It("should wrap transport errors", func() {
		sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		}
		err := sender.Send(context.Background(), Job{Notification: &notificationDatamodel.Notification{ID: 3}, Email: "a@example.com"})
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})
})
