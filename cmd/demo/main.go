// Console front end over the session state machine: search flights, pick a
// seat, confirm a booking, browse and cancel booking history. Runs fully
// in-process against the fixture catalog.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/fixture"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/reservation"
	"github.com/Domenick1991/flightdesk/internal/session"
	"github.com/Domenick1991/flightdesk/internal/ticket"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	seeded, err := fixture.Flights(cfg.Catalog, time.Now())
	if err != nil {
		log.Fatalf("build fixtures: %v", err)
	}
	catalog, err := repository.NewMemoryFlightCatalog(seeded)
	if err != nil {
		log.Fatalf("build catalog: %v", err)
	}
	registry := repository.NewMemoryBookingRegistry()
	engine := reservation.NewReservationService(catalog, registry)

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)
	sess := session.New(catalog, engine)

	fmt.Println("Flight Booking Demo. Commands: search, bookings, cancel <id>, quit")
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		switch {
		case line == "quit" || line == "exit":
			return
		case line == "search":
			runBookingFlow(ctx, in, sess, engine)
		case line == "bookings":
			printBookings(ctx, engine)
		case strings.HasPrefix(line, "cancel "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "cancel "))
			cancelled, err := engine.CancelBooking(ctx, id)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("cancelled %s, seat %s on %s released\n", cancelled.ID, cancelled.Seat, cancelled.Flight.Code)
		case line == "":
		default:
			fmt.Println("unknown command")
		}
	}
}

func runBookingFlow(ctx context.Context, in *bufio.Scanner, sess *session.Session, engine reservation.ReservationUseCase) {
	origin := prompt(in, "From (e.g. BKK): ")
	destination := prompt(in, "To (e.g. DEL): ")
	date := prompt(in, fmt.Sprintf("Date [%s]: ", time.Now().Format(time.DateOnly)))
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	matches, err := sess.Search(ctx, origin, destination, date)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(matches) == 0 {
		fmt.Println("No flights found for selection.")
		return
	}
	fmt.Println("Flight  From  To    Date        Depart  Arrive  Fare      Available")
	for _, f := range matches {
		fmt.Printf("%-7s %-5s %-5s %-11s %-7s %-7s %-9s %d\n",
			f.Code, f.Origin, f.Destination, f.Date.Format(time.DateOnly),
			f.DepartTime, f.ArriveTime, domain.FormatFare(f.FareCents), f.Available())
	}

	if err := sess.ChooseFlight(ctx, prompt(in, "Flight code: ")); err != nil {
		fmt.Println("error:", err)
		sess.Abandon()
		return
	}
	err = sess.EnterPassenger(session.Passenger{
		FirstName: prompt(in, "First name: "),
		LastName:  prompt(in, "Last name: "),
		Phone:     prompt(in, "Phone: "),
	})
	if err != nil {
		fmt.Println("error:", err)
		sess.Abandon()
		return
	}

	for {
		printSeatGrid(sess.Flight())
		seat := domain.SeatID(strings.ToUpper(prompt(in, "Seat (e.g. A1): ")))
		if err := sess.ChooseSeat(ctx, seat); err != nil {
			fmt.Println("error:", err)
			continue
		}
		booking, err := sess.Confirm(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSeatTaken) {
				fmt.Println("Seat booked. Pick another.")
				continue
			}
			fmt.Println("error:", err)
			sess.Abandon()
			return
		}
		fmt.Print(ticket.Render(booking))
		sess.Abandon()
		return
	}
}

func printSeatGrid(f *domain.Flight) {
	fmt.Printf("Seats on %s (X = booked):\n", f.Code)
	seats := f.SeatMap()
	for i, s := range seats {
		if s.Available {
			fmt.Printf("%-4s", s.Seat)
		} else {
			fmt.Printf("%-4s", "X")
		}
		if (i+1)%f.Cols == 0 {
			fmt.Println()
		}
	}
}

func printBookings(ctx context.Context, engine reservation.ReservationUseCase) {
	bookings, err := engine.ListBookings(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(bookings) == 0 {
		fmt.Println("No bookings yet.")
		return
	}
	for _, b := range bookings {
		fmt.Printf("%s  %-20s %-12s %s %s  seat %-3s fare %s\n",
			b.ID, b.FullName(), b.Phone, b.Flight.Code,
			b.Flight.Date.Format(time.DateOnly), b.Seat, domain.FormatFare(b.Flight.FareCents))
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
