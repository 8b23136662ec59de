package payment

import (
	"context"
	"log"
	"time"

	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/kafka"
	"github.com/zvrva/staybook/internal/payments"
	"github.com/zvrva/staybook/internal/repository"
)

type PaymentUseCase interface {
	InitiateCheckout(ctx context.Context, bookingID, origin string) (string, error)
	VerifyPayment(ctx context.Context, sessionID string) (*VerifyResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type VerifyResult struct {
	Paid    bool
	Message string
}

type PaymentService struct {
	bookings           repository.BookingRepository
	hotels             repository.HotelRepository
	users              repository.UserRepository
	gateway            payments.Gateway
	producer           Producer
	currency           string
	notificationsTopic string
}

type PaymentServiceOption func(*PaymentService)

func WithNotificationsTopic(topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.notificationsTopic = topic
	}
}

func NewPaymentService(
	bookings repository.BookingRepository,
	hotels repository.HotelRepository,
	users repository.UserRepository,
	gateway payments.Gateway,
	producer Producer,
	currency string,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		bookings: bookings,
		hotels:   hotels,
		users:    users,
		gateway:  gateway,
		producer: producer,
		currency: currency,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// InitiateCheckout builds the gateway session for an unpaid booking and returns
// the redirect URL. Nothing changes locally; the booking stays unpaid until one
// of the confirmation channels reports back.
func (s *PaymentService) InitiateCheckout(ctx context.Context, bookingID, origin string) (string, error) {
	if bookingID == "" {
		return "", domain.NewValidation("Booking ID is required")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.IsPaid {
		return "", domain.NewAlreadyPaid("Booking already paid")
	}

	description := "Hotel booking"
	if hotel, err := s.hotels.GetByID(ctx, booking.HotelID); err == nil {
		description = hotel.Name
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutParams{
		BookingID:   booking.ID,
		Amount:      booking.TotalPrice,
		Currency:    s.currency,
		Description: description,
		SuccessURL:  origin + "/my-bookings?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/my-bookings",
	})
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

// VerifyPayment is the client-initiated pull channel: the browser comes back
// from the gateway with a session id and asks whether it went through.
func (s *PaymentService) VerifyPayment(ctx context.Context, sessionID string) (*VerifyResult, error) {
	if sessionID == "" {
		return nil, domain.NewValidation("Session ID is required")
	}

	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	bookingID := session.Metadata["bookingId"]
	if bookingID == "" {
		return nil, domain.NewValidation("No booking ID in session")
	}

	if !session.Paid {
		// A legitimate pending state, not an error; clients poll.
		return &VerifyResult{Paid: false, Message: "Payment not completed"}, nil
	}

	if err := s.confirmPayment(ctx, bookingID); err != nil {
		return nil, err
	}
	return &VerifyResult{Paid: true, Message: "Payment verified successfully"}, nil
}

// HandleWebhook is the gateway-initiated push channel. Signature verification
// happens before anything in the payload is trusted; unrecognized event types
// are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case payments.EventCheckoutCompleted:
		bookingID := event.Metadata["bookingId"]
		if bookingID == "" {
			return domain.NewValidation("No booking ID in session")
		}
		return s.confirmPayment(ctx, bookingID)

	case payments.EventPaymentSucceeded:
		// This event carries no session metadata; resolve the originating
		// session through the payment intent.
		session, err := s.gateway.SessionByPaymentIntent(ctx, event.PaymentIntentID)
		if err != nil {
			return err
		}
		bookingID := session.Metadata["bookingId"]
		if bookingID == "" {
			return domain.NewValidation("No booking ID in session")
		}
		return s.confirmPayment(ctx, bookingID)

	default:
		log.Printf("unhandled webhook event type: %s", event.Type)
		return nil
	}
}

// confirmPayment is the single mutation both channels converge on. Confirming
// an already-paid booking is a no-op: no error, no second notification.
func (s *PaymentService) confirmPayment(ctx context.Context, bookingID string) error {
	transitioned, err := s.bookings.MarkPaid(ctx, bookingID, "Stripe", time.Now())
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}

	log.Printf("payment successful for booking %s", bookingID)
	if booking, err := s.bookings.GetByID(ctx, bookingID); err == nil {
		go s.notifyPaid(booking.ID, booking.UserID, booking.HotelID, booking.TotalPrice)
	}
	return nil
}

func (s *PaymentService) notifyPaid(bookingID, userID, hotelID string, totalPrice int64) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	event := kafka.BookingEvent{
		Type:       "booking_paid",
		BookingID:  bookingID,
		UserID:     userID,
		TotalPrice: totalPrice,
	}
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		event.Email = user.Email
		event.Username = user.Username
	}
	if hotel, err := s.hotels.GetByID(ctx, hotelID); err == nil {
		event.HotelName = hotel.Name
		event.HotelCity = hotel.City
	}

	if err := s.producer.Publish(ctx, s.notificationsTopic, bookingID, event); err != nil {
		log.Printf("WARNING: failed to publish booking_paid notification for booking %s: %v", bookingID, err)
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
