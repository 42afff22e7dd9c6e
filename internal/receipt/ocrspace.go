package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// DefaultOCRSpaceURL is the OCR.space parse endpoint.
const DefaultOCRSpaceURL = "https://api.ocr.space/parse/image"

// OCRSpace extracts receipt text with the OCR.space API.
type OCRSpace struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOCRSpace creates an OCR.space client. An empty baseURL selects the public endpoint.
// Per-call deadlines come from the context.
func NewOCRSpace(apiKey, baseURL string, client *http.Client) *OCRSpace {
	if baseURL == "" {
		baseURL = DefaultOCRSpaceURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OCRSpace{apiKey: apiKey, baseURL: baseURL, client: client}
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		TextOverlay struct {
			Lines []struct {
				Words []struct {
					WordText string `json:"WordText"`
				} `json:"Words"`
			} `json:"Lines"`
		} `json:"TextOverlay"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// ExtractText returns the words of the first parsed page, in reading order.
func (c *OCRSpace) ExtractText(ctx context.Context, img Image) ([]string, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ocr.space: %w", ErrNotConfigured)
	}

	body, contentType, err := c.form(img)
	if err != nil {
		return nil, fmt.Errorf("failed to build OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ServiceError{Service: "ocr.space", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{Service: "ocr.space", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Service: "ocr.space", StatusCode: resp.StatusCode, Err: errors.New(truncate(string(raw), 200))}
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode OCR response: %w", err)
	}
	if parsed.IsErroredOnProcessing {
		return nil, fmt.Errorf("ocr.space processing error: %s", errorMessage(parsed.ErrorMessage))
	}

	var words []string
	if len(parsed.ParsedResults) > 0 {
		for _, line := range parsed.ParsedResults[0].TextOverlay.Lines {
			for _, w := range line.Words {
				if w.WordText != "" {
					words = append(words, w.WordText)
				}
			}
		}
	}
	return words, nil
}

func (c *OCRSpace) form(img Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"apikey", c.apiKey},
		{"language", "eng"},
		{"isOverlayRequired", "true"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	name := img.Filename
	if name == "" {
		name = "receipt.jpg"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// errorMessage renders OCR.space's ErrorMessage, which is either a string or a list.
func errorMessage(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return "unknown error"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
