package response

type CheckoutResponse struct {
	SessionHandle    string `json:"session_handle"`
	RedirectURL      string `json:"redirect_url"`
	BookingID        string `json:"booking_id"`
	Currency         string `json:"currency"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Amount           string `json:"amount"`
	// CurrencyFallback is set when the requested currency could not be
	// priced and the session was created in the base currency.
	CurrencyFallback bool `json:"currency_fallback,omitempty"`
}
