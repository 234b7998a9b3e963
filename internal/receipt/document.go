// Package receipt turns a booking into the printable reservation document.
// Render is pure; WritePDF is the only place that knows about page geometry.
package receipt

import (
	"strings"
	"time"

	"flight-reservation/internal/currency"
	"flight-reservation/internal/data/entity"
)

const notAvailable = "N/A"

type Field struct {
	Label string
	Value string
}

type Itinerary struct {
	From        string
	To          string
	TripBadge   string
	Departure   string
	Return      string
	HasReturn   bool
	TravelClass string
}

type Document struct {
	Brand     string
	Title     string
	Reference string
	IssuedAt  time.Time
	Left      []Field
	Right     []Field
	Itinerary Itinerary
	Footer    []string
}

type Renderer struct {
	brand        string
	supportEmail string
	denoms       *currency.Denominations
}

func NewRenderer(brand, supportEmail string, denoms *currency.Denominations) *Renderer {
	return &Renderer{brand: brand, supportEmail: supportEmail, denoms: denoms}
}

// Render lays out the booking. Missing optional data renders as N/A, so it
// never fails.
func (r *Renderer) Render(b *entity.Booking) Document {
	p := b.PassengerDetails.Passenger
	t := b.PassengerDetails.Travel

	doc := Document{
		Brand:     r.brand,
		Title:     "Flight Reservation",
		Reference: b.ID,
		IssuedAt:  b.CreatedAt.UTC(),
		Left: []Field{
			{"Passenger", orNA(p.FullName())},
			{"Email", orNA(p.Email)},
			{"Booking ID", orNA(b.ID)},
			{"Plan", orNA(b.PlanNameSnapshot)},
			{"Nationality", orNA(p.Nationality)},
			{"Passport", orNA(p.Passport)},
		},
		Right: []Field{
			{"Payment Reference", orNA(b.PaymentReference)},
			{"Status", statusLabel(b.Status)},
			{"Amount", r.amount(b)},
			{"Payment Method", orNA(b.PaymentMethod)},
		},
		Itinerary: Itinerary{
			From:        orNA(t.DepartureCity),
			To:          orNA(t.ArrivalCity),
			TripBadge:   tripBadge(t),
			Departure:   orNA(t.DepartureDate),
			Return:      strings.TrimSpace(t.ReturnDate),
			HasReturn:   strings.TrimSpace(t.ReturnDate) != "",
			TravelClass: classLabel(t.TravelClass),
		},
		Footer: []string{
			"This document confirms a flight reservation held for the passenger named above.",
			"It is valid for visa applications and proof of onward travel, not for boarding.",
		},
	}
	if r.supportEmail != "" {
		doc.Footer = append(doc.Footer, "Questions? Contact "+r.supportEmail+" and quote "+b.ID+".")
	}

	return doc
}

// Lines flattens the document in reading order.
func (d Document) Lines() []string {
	lines := []string{
		d.Brand,
		d.Title,
		"Reference: " + d.Reference,
		"Issued: " + d.IssuedAt.Format("2006-01-02"),
	}
	for _, f := range d.Left {
		lines = append(lines, f.Label+": "+f.Value)
	}
	for _, f := range d.Right {
		lines = append(lines, f.Label+": "+f.Value)
	}

	it := d.Itinerary
	lines = append(lines,
		"From: "+it.From,
		"To: "+it.To,
		"Trip: "+it.TripBadge,
		"Departure: "+it.Departure,
	)
	if it.HasReturn {
		lines = append(lines, "Return: "+it.Return)
	}
	lines = append(lines, "Class: "+it.TravelClass)

	return append(lines, d.Footer...)
}

func (r *Renderer) amount(b *entity.Booking) string {
	if b.Currency == "" {
		return notAvailable
	}
	return r.denoms.FormatAmount(b.Amount, b.Currency)
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return notAvailable
	}
	return s
}

func statusLabel(s entity.BookingStatus) string {
	switch s {
	case entity.BookingStatusPaid:
		return "Confirmed"
	case entity.BookingStatusPendingVerification:
		return "Pending"
	case entity.BookingStatusFailed:
		return "Failed"
	}
	return notAvailable
}

func tripBadge(t entity.TravelInfo) string {
	switch {
	case t.TripType == entity.TripTypeRoundTrip:
		return "ROUND TRIP"
	case t.TripType == entity.TripTypeOneWay:
		return "ONE WAY"
	case t.ReturnDate != "":
		return "ROUND TRIP"
	}
	return "ONE WAY"
}

func classLabel(class string) string {
	switch class {
	case "economy":
		return "Economy"
	case "premium_economy":
		return "Premium Economy"
	case "business":
		return "Business"
	case "first":
		return "First"
	}
	return orNA(class)
}
