package qrcode

import (
	"strings"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a store QR code service. QR content is
// "<baseURL>/<storeID>", or the bare store ID when no base URL is configured.
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch strings.ToUpper(errorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = defaultSize
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// NewFromConfig builds the service from the qrcode config section.
func NewFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(defaultSize, "M", "")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func (s *qrcodeService) content(storeID uuid.UUID) string {
	if s.baseURL == "" {
		return storeID.String()
	}

	return s.baseURL + "/" + storeID.String()
}

// GenerateStoreQR renders a PNG QR code pointing at the store
func (s *qrcodeService) GenerateStoreQR(storeID uuid.UUID) ([]byte, error) {
	if storeID == uuid.Nil {
		return nil, errors.New("store ID is required")
	}

	qrCode, err := qrcode.New(s.content(storeID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseStoreQR extracts the store ID from scanned QR content
func (s *qrcodeService) ParseStoreQR(data string) (uuid.UUID, error) {
	data = strings.TrimSpace(data)
	if s.baseURL != "" && strings.HasPrefix(data, "http") {
		if !strings.HasPrefix(data, s.baseURL+"/") {
			return uuid.Nil, errors.Errorf("QR code does not belong to %s", s.baseURL)
		}
		data = strings.TrimPrefix(data, s.baseURL+"/")
	}

	storeID, err := uuid.Parse(strings.Trim(data, "/"))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse store ID")
	}

	return storeID, nil
}
