package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mmynk/billsplittr/internal/models"
)

const (
	// DefaultWorkersAIModel is the text model used to structure OCR output.
	DefaultWorkersAIModel = "@cf/meta/llama-3.1-8b-instruct"

	defaultWorkersAIBase = "https://api.cloudflare.com/client/v4"
)

const systemPrompt = `You turn the OCR text of a restaurant or shop receipt into JSON.
Answer with a single JSON object and nothing else, shaped like:
{"billName": string, "items": [{"name": string, "price": number, "quantity": number}],
 "extraCharges": [{"name": string, "value": number, "type": "amount" | "percentage"}],
 "total": number, "confidence": number}
Rules:
- price is the price of ONE unit. If a line shows a quantity and a line total, divide.
- quantity defaults to 1.
- Tax, tip, service and delivery fees go in extraCharges, not items.
- Use type "percentage" only when the receipt prints a percent rate; value is then the rate.
- Do not list subtotal or total lines as items.
- confidence is between 0 and 1 and says how sure you are the items are right.`

// WorkersAI structures OCR words into a bill with a Cloudflare Workers AI text model.
type WorkersAI struct {
	accountID string
	apiToken  string
	model     string
	baseURL   string
	client    *http.Client
}

// NewWorkersAI creates a Workers AI client. An empty model selects DefaultWorkersAIModel.
func NewWorkersAI(accountID, apiToken, model string, client *http.Client) *WorkersAI {
	if model == "" {
		model = DefaultWorkersAIModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &WorkersAI{
		accountID: accountID,
		apiToken:  apiToken,
		model:     model,
		baseURL:   defaultWorkersAIBase,
		client:    client,
	}
}

// WithBaseURL points the client at a different API root. Used by tests.
func (c *WorkersAI) WithBaseURL(u string) *WorkersAI {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

func (c *WorkersAI) endpoint() string {
	return fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

// ParseBill asks the model to structure the words into a bill.
func (c *WorkersAI) ParseBill(ctx context.Context, words []string) (*models.ParsedBill, error) {
	if c.accountID == "" || c.apiToken == "" {
		return nil, fmt.Errorf("workers ai: %w", ErrNotConfigured)
	}

	payload, err := json.Marshal(chatRequest{Messages: []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Receipt text:\n" + strings.Join(words, " ")},
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create parse request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ServiceError{Service: "workers ai", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ServiceError{Service: "workers ai", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Service: "workers ai", StatusCode: resp.StatusCode, Err: errors.New(truncate(string(body), 200))}
	}

	reply, err := unwrapReply(body)
	if err != nil {
		return nil, err
	}
	return parseReply(reply)
}
