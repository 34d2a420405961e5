package service

import (
	"github.com/google/uuid"
)

// QRCodeService generates and reads store QR codes.
type QRCodeService interface {
	// GenerateStoreQR renders a PNG QR code pointing at the store.
	GenerateStoreQR(storeID uuid.UUID) ([]byte, error)

	// ParseStoreQR extracts the store ID from scanned QR content.
	ParseStoreQR(data string) (uuid.UUID, error)
}
