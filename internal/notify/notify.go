package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
)

// Sender delivers passenger notifications for booking events. The demo
// deployment has no SMS gateway, so messages go to stdout.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case kafka.EventBookingCreated:
		fmt.Printf("sms to %s: booking %s confirmed, flight %s %s -> %s on %s, seat %s, fare %s\n",
			event.Phone, event.BookingID, event.FlightCode, event.Origin, event.Destination,
			event.Date, event.Seat, domain.FormatFare(event.FareCents))
	case kafka.EventBookingCancelled:
		fmt.Printf("sms to %s: booking %s cancelled, seat %s on flight %s released\n",
			event.Phone, event.BookingID, event.Seat, event.FlightCode)
	default:
		fmt.Printf("sms to %s: booking %s update (%s)\n", event.Phone, event.BookingID, event.Type)
	}
	return nil
}
