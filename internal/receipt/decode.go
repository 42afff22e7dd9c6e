package receipt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/billsplittr/internal/models"
)

// flexText accepts a JSON string, number or null and keeps it as text.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// Booleans and nested values are not numbers the bill can use.
		*f = ""
		return nil
	}
	*f = flexText(n.String())
	return nil
}

type rawItem struct {
	Name     flexText `json:"name"`
	Price    flexText `json:"price"`
	Quantity flexText `json:"quantity"`
}

type rawCharge struct {
	Name  flexText `json:"name"`
	Value flexText `json:"value"`
	Type  flexText `json:"type"`
}

type rawBill struct {
	BillName     flexText        `json:"billName"`
	Items        json.RawMessage `json:"items"`
	ExtraCharges json.RawMessage `json:"extraCharges"`
	Confidence   *float64        `json:"confidence"`
	Total        flexText        `json:"total"`
}

// decodeParsedBill reads the model's JSON answer. Missing or non-list items and
// charges become empty lists; list entries that are not objects are skipped.
func decodeParsedBill(data []byte) (*models.ParsedBill, error) {
	var raw rawBill
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	out := &models.ParsedBill{
		BillName:     strings.TrimSpace(string(raw.BillName)),
		Items:        []models.ParsedItem{},
		ExtraCharges: []models.ParsedCharge{},
		Confidence:   raw.Confidence,
		Total:        strings.TrimSpace(string(raw.Total)),
	}

	for _, it := range decodeList[rawItem](raw.Items) {
		out.Items = append(out.Items, models.ParsedItem{
			Name:     strings.TrimSpace(string(it.Name)),
			Price:    strings.TrimSpace(string(it.Price)),
			Quantity: strings.TrimSpace(string(it.Quantity)),
		})
	}
	for _, ch := range decodeList[rawCharge](raw.ExtraCharges) {
		out.ExtraCharges = append(out.ExtraCharges, models.ParsedCharge{
			Name:  strings.TrimSpace(string(ch.Name)),
			Value: strings.TrimSpace(string(ch.Value)),
			Type:  models.ChargeType(strings.ToLower(strings.TrimSpace(string(ch.Type)))),
		})
	}
	return out, nil
}

func decodeList[T any](data json.RawMessage) []T {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// extractJSON returns the outermost {...} span of s, which is how chat models
// usually wrap a JSON answer in prose or code fences.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// unwrapReply finds the model's text inside a Workers AI envelope. The answer is
// normally at result.response, but older models put it at response. The value
// may itself already be an object rather than a string.
func unwrapReply(body []byte) (string, error) {
	var env struct {
		Result struct {
			Response json.RawMessage `json:"response"`
		} `json:"result"`
		Response json.RawMessage `json:"response"`
		Success  *bool           `json:"success"`
		Errors   []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if env.Success != nil && !*env.Success && len(env.Errors) > 0 {
		return "", fmt.Errorf("%w: %s", ErrInvalidResponse, env.Errors[0].Message)
	}

	reply := env.Result.Response
	if len(reply) == 0 || string(reply) == "null" {
		reply = env.Response
	}
	if len(reply) == 0 || string(reply) == "null" {
		return "", fmt.Errorf("%w: empty reply", ErrInvalidResponse)
	}

	var s string
	if err := json.Unmarshal(reply, &s); err == nil {
		return s, nil
	}
	return string(reply), nil
}

// parseReply turns the model's text into a candidate bill.
func parseReply(reply string) (*models.ParsedBill, error) {
	js, ok := extractJSON(reply)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in reply %s", ErrInvalidResponse, strconv.Quote(truncate(strings.TrimSpace(reply), 80)))
	}
	return decodeParsedBill([]byte(js))
}
