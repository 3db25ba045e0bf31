package qrcode

import (
	"encoding/json"

	"freshharvest/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize = 256
	listingType = "listing"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// ListingQRData is the payload encoded in a listing QR code.
type ListingQRData struct {
	Type      string `json:"type"`
	ProductID int64  `json:"product_id"`
	FarmerID  string `json:"farmer_id"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: recoveryLevel(errorCorrectionLevel),
	}
}

func recoveryLevel(level string) qrcode.RecoveryLevel {
	switch level {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GenerateListingQR renders the listing payload as a PNG.
func (s *qrcodeService) GenerateListingQR(productID int64, farmerID uuid.UUID) ([]byte, error) {
	payload, err := encodeListing(productID, farmerID)
	if err != nil {
		return nil, err
	}

	qrCode, err := qrcode.New(payload, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

func encodeListing(productID int64, farmerID uuid.UUID) (string, error) {
	jsonData, err := json.Marshal(ListingQRData{
		Type:      listingType,
		ProductID: productID,
		FarmerID:  farmerID.String(),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal QR code data")
	}

	return string(jsonData), nil
}
