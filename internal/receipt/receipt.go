// Package receipt turns a photo of a receipt into a candidate bill.
//
// The pipeline has two upstream stages: an OCR service extracts the words on the
// receipt, then a language model arranges them into items and extra charges.
// Both calls run with a timeout and bounded retries; results are cached by image
// digest so re-uploading the same photo costs nothing.
package receipt

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/billsplittr/internal/models"
)

var (
	ErrEmptyImage      = errors.New("receipt image is empty")
	ErrImageTooLarge   = errors.New("receipt image is too large")
	ErrNoText          = errors.New("no text found on the receipt")
	ErrInvalidResponse = errors.New("parsing service returned an unreadable response")
	ErrLowConfidence   = errors.New("receipt could not be read clearly")
	ErrNotConfigured   = errors.New("service credentials are not configured")
)

// Image is an uploaded receipt photo.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TextExtractor reads the words printed on a receipt image.
type TextExtractor interface {
	ExtractText(ctx context.Context, img Image) ([]string, error)
}

// BillParser arranges OCR words into a candidate bill.
type BillParser interface {
	ParseBill(ctx context.Context, words []string) (*models.ParsedBill, error)
}

// ServiceError reports a failed call to an upstream service.
type ServiceError struct {
	Service string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	Err error
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s returned status %d: %v", e.Service, e.StatusCode, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the call could succeed.
func (e *ServiceError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}
