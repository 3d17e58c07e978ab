// Package ticket renders printable booking summaries. Pure formatting,
// no state, no I/O.
package ticket

import (
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

func Render(b *domain.Booking) string {
	f := b.Flight
	var sb strings.Builder
	sb.WriteString("===== FLIGHT TICKET =====\n")
	sb.WriteString("Booking ID : " + b.ID + "\n")
	sb.WriteString("Name       : " + b.FullName() + "\n")
	sb.WriteString("Phone      : " + b.Phone + "\n")
	sb.WriteString("--------------------------\n")
	sb.WriteString("Flight     : " + f.Code + "\n")
	sb.WriteString("Route      : " + f.Route() + "\n")
	sb.WriteString("Date       : " + f.Date.Format(time.DateOnly) + "\n")
	sb.WriteString("Time       : " + f.DepartTime + " - " + f.ArriveTime + "\n")
	sb.WriteString("Seat       : " + string(b.Seat) + "\n")
	sb.WriteString("Fare (INR) : " + domain.FormatFare(f.FareCents) + "\n")
	sb.WriteString("==========================\n")
	return sb.String()
}
