package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/zvrva/staybook/config"
	"github.com/zvrva/staybook/internal/kafka"
)

type Sender struct {
	cfg config.EmailConfig
}

func NewSender(cfg config.EmailConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers a booking notification. Without an SMTP host configured the
// message is only logged; delivery failures are the caller's to ignore.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, body := compose(event)

	if s.cfg.Host == "" {
		log.Printf("email (no SMTP configured) to %s: %s", event.Email, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + event.Email,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{event.Email}, []byte(msg))
}

func compose(event kafka.BookingEvent) (subject, body string) {
	switch event.Type {
	case "booking_paid":
		subject = "Payment Confirmed"
	case "booking_cancelled":
		subject = "Booking Cancelled"
	default:
		subject = "Hotel Booking Details"
	}

	body = fmt.Sprintf(`Dear %s,

Thank you for your booking! Here are your details:

Booking ID: %s
Hotel Name: %s
Location: %s
Check-in Date: %s
Check-out Date: %s
Number of Nights: %d
Total Amount: %.2f

We look forward to welcoming you!
If you need to make any changes, feel free to contact us.`,
		event.Username,
		event.BookingID,
		event.HotelName,
		event.HotelCity,
		event.CheckIn.Format("Mon Jan 2 2006"),
		event.CheckOut.Format("Mon Jan 2 2006"),
		event.Nights,
		float64(event.TotalPrice)/100,
	)
	return subject, body
}
