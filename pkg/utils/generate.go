package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// ==================== BOOKING ID ====================

// GenerateBookingID returns a reference in the form TKT-{year}-{6 hex uppercase}.
// Uniqueness is not checked against storage.
func GenerateBookingID(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("read random bytes: %v", err))
	}

	return fmt.Sprintf("TKT-%d-%s", now.Year(), strings.ToUpper(hex.EncodeToString(buf)))
}
