package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== BOOKING CODE ====================

// GenerateBookingCode creates a human-facing booking reference
func GenerateBookingCode() string {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	// Format: BK-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("BK-%s-%s-%s", datePart, timePart, randomPart)
}

// GenerateReceiptID creates a receipt reference for gateway orders
func GenerateReceiptID(prefix string) string {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().Unix(), rand.Intn(10000))
}
