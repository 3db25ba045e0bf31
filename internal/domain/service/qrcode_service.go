package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation
type QRCodeService interface {
	// GenerateListingQR renders a PNG QR code that identifies a product listing.
	GenerateListingQR(productID int64, farmerID uuid.UUID) ([]byte, error)
}
