// Package metadata packs the checkout form into the gateway's metadata
// fields. The gateway bounds every metadata value, so the form is split into
// four groups, each serialized with short keys and checked against the limit.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"flight-reservation/internal/data/entity"
)

// DefaultMaxLen is the per-value metadata limit of the Stripe API.
const DefaultMaxLen = 500

// Metadata keys holding the serialized groups.
const (
	KeyPassenger = "passenger"
	KeyTravel    = "travel"
	KeyDelivery  = "delivery"
	KeyBilling   = "billing"
)

// ChunkTooLargeError is returned when a group does not fit one metadata value.
type ChunkTooLargeError struct {
	Group  string
	Length int
	Limit  int
}

func (e *ChunkTooLargeError) Error() string {
	return fmt.Sprintf("%s details are too long: %d characters, limit %d", e.Group, e.Length, e.Limit)
}

type Codec struct {
	maxLen int
}

func NewCodec(maxLen int) *Codec {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Codec{maxLen: maxLen}
}

// MaxLen returns the configured per-chunk limit.
func (c *Codec) MaxLen() int {
	return c.maxLen
}

// Encode serializes the form into one chunk per group. It never truncates:
// a group over the limit fails the whole encoding.
func (c *Codec) Encode(form entity.PassengerForm) (map[string]string, error) {
	groups := []struct {
		key   string
		value any
	}{
		{KeyPassenger, passengerChunk{
			FirstName:   form.Passenger.FirstName,
			LastName:    form.Passenger.LastName,
			Email:       form.Passenger.Email,
			Phone:       form.Passenger.Phone,
			Passport:    form.Passenger.Passport,
			DateOfBirth: form.Passenger.DateOfBirth,
			Gender:      form.Passenger.Gender,
			Nationality: form.Passenger.Nationality,
		}},
		{KeyTravel, travelChunk{
			DepartureCity: form.Travel.DepartureCity,
			ArrivalCity:   form.Travel.ArrivalCity,
			DepartureDate: form.Travel.DepartureDate,
			ReturnDate:    form.Travel.ReturnDate,
			TravelClass:   form.Travel.TravelClass,
			TripType:      string(form.Travel.TripType),
		}},
		{KeyDelivery, deliveryChunk{
			Method: form.Delivery.Method,
			Target: form.Delivery.Target,
		}},
		{KeyBilling, billingChunk{
			Name:       form.Billing.Name,
			Email:      form.Billing.Email,
			Address:    form.Billing.Address,
			City:       form.Billing.City,
			State:      form.Billing.State,
			PostalCode: form.Billing.PostalCode,
			Country:    form.Billing.Country,
		}},
	}

	chunks := make(map[string]string, len(groups))
	for _, g := range groups {
		raw, err := compact(g.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s details: %w", g.key, err)
		}
		if n := utf8.RuneCountInString(raw); n > c.maxLen {
			return nil, &ChunkTooLargeError{Group: g.key, Length: n, Limit: c.maxLen}
		}
		chunks[g.key] = raw
	}

	return chunks, nil
}

// Decode reassembles the form. A missing or unreadable chunk leaves its group
// empty; the returned slice names those groups so callers can log them.
func (c *Codec) Decode(chunks map[string]string) (entity.PassengerForm, []string) {
	var (
		form   entity.PassengerForm
		failed []string
	)

	var p passengerChunk
	if decodeChunk(chunks, KeyPassenger, &p) {
		form.Passenger = entity.PassengerInfo{
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Email:       p.Email,
			Phone:       p.Phone,
			Passport:    p.Passport,
			DateOfBirth: p.DateOfBirth,
			Gender:      p.Gender,
			Nationality: p.Nationality,
		}
	} else {
		failed = append(failed, KeyPassenger)
	}

	var t travelChunk
	if decodeChunk(chunks, KeyTravel, &t) {
		form.Travel = entity.TravelInfo{
			DepartureCity: t.DepartureCity,
			ArrivalCity:   t.ArrivalCity,
			DepartureDate: t.DepartureDate,
			ReturnDate:    t.ReturnDate,
			TravelClass:   t.TravelClass,
			TripType:      entity.TripType(t.TripType),
		}
	} else {
		failed = append(failed, KeyTravel)
	}

	var d deliveryChunk
	if decodeChunk(chunks, KeyDelivery, &d) {
		form.Delivery = entity.DeliveryInfo{Method: d.Method, Target: d.Target}
	} else {
		failed = append(failed, KeyDelivery)
	}

	var b billingChunk
	if decodeChunk(chunks, KeyBilling, &b) {
		form.Billing = entity.BillingInfo{
			Name:       b.Name,
			Email:      b.Email,
			Address:    b.Address,
			City:       b.City,
			State:      b.State,
			PostalCode: b.PostalCode,
			Country:    b.Country,
		}
	} else {
		failed = append(failed, KeyBilling)
	}

	return form, failed
}

func decodeChunk(chunks map[string]string, key string, dst any) bool {
	raw, ok := chunks[key]
	if !ok || raw == "" {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

func compact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
