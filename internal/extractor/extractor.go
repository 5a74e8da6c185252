// Package extractor converts raw listing page text into a WatchRecord via
// the OpenAI chat-completions JSON mode. The model output is decoded
// leniently; strict clamping happens downstream in the watch package.
package extractor

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hikaru-dev/watchscout/internal/models"
)

// schemaJSON is the shape the model is asked to fill. bracelet_type is a
// closed enum; everything else is nullable.
const schemaJSON = `{
  "type": "object",
  "properties": {
    "name": {"type": ["string", "null"], "description": "full listing name of the watch"},
    "model_number": {"type": ["string", "null"], "description": "manufacturer reference number"},
    "dial_color": {"type": ["string", "null"], "description": "dial color"},
    "bracelet_type": {
      "type": ["string", "null"],
      "enum": ["OysterBracelet", "JubileeBracelet", "PresidentBracelet",
               "OysterflexBracelet", "PearlmasterBracelet", "LeatherBracelet",
               "Other", "Unknown"],
      "description": "bracelet style"
    },
    "price": {"type": ["integer", "null"], "description": "listed price in yen, digits only"},
    "url": {"type": ["string", "null"], "description": "item page URL"},
    "seller": {"type": ["string", "null"], "description": "shop or seller name"},
    "warranty_date": {"type": ["string", "null"], "description": "warranty card date"},
    "accessories": {
      "type": "object",
      "properties": {
        "has_warranty_card": {"type": ["boolean", "null"]},
        "has_box": {"type": ["boolean", "null"]},
        "other_description": {"type": ["string", "null"]}
      },
      "required": ["has_warranty_card", "has_box", "other_description"]
    },
    "condition": {"type": ["string", "null"], "description": "condition grade or description"}
  },
  "required": ["name", "model_number", "dial_color", "bracelet_type", "price",
               "seller", "warranty_date", "accessories", "condition"]
}`

const systemPrompt = "You extract used-watch listing details from marketplace page text. " +
	"Respond with a single JSON object matching this schema, using null for anything the text does not state:\n" + schemaJSON

// Extractor calls the structured-extraction collaborator. Stateless apart
// from the held client and model name; reusable across rows.
type Extractor struct {
	client *openai.Client
	model  string
}

// New builds an Extractor for the given API key and model.
func New(apiKey, model string) *Extractor {
	return &Extractor{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Extract sends the raw listing text to the model and decodes the response.
// The returned record is unclamped; callers run watch.Normalize on it.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.WatchRecord, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Listing text:\n\"\"\"\n" + text + "\n\"\"\""},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "extractor: chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("extractor: empty response")
	}
	rec, err := ParseRecord(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, eris.Wrap(err, "extractor: parse response")
	}
	return rec, nil
}

// wireRecord tolerates the loose shapes the model actually produces: price
// may arrive as a number or a string, accessories may be missing entirely.
type wireRecord struct {
	Name         *string          `json:"name"`
	ModelNumber  *string          `json:"model_number"`
	DialColor    *string          `json:"dial_color"`
	BraceletType *string          `json:"bracelet_type"`
	Price        json.RawMessage  `json:"price"`
	URL          *string          `json:"url"`
	Seller       *string          `json:"seller"`
	WarrantyDate *string          `json:"warranty_date"`
	Accessories  *wireAccessories `json:"accessories"`
	Condition    *string          `json:"condition"`
}

type wireAccessories struct {
	HasWarrantyCard  *bool   `json:"has_warranty_card"`
	HasBox           *bool   `json:"has_box"`
	OtherDescription *string `json:"other_description"`
}

// ParseRecord decodes a model response into a WatchRecord. Markdown fences
// are tolerated; a response that is not a JSON object is an error.
func ParseRecord(content string) (*models.WatchRecord, error) {
	var wire wireRecord
	if err := json.Unmarshal([]byte(CleanJSON(content)), &wire); err != nil {
		return nil, err
	}

	rec := &models.WatchRecord{
		Name:         wire.Name,
		ModelNumber:  wire.ModelNumber,
		DialColor:    wire.DialColor,
		BraceletType: wire.BraceletType,
		Price:        parsePrice(wire.Price),
		URL:          wire.URL,
		Seller:       wire.Seller,
		WarrantyDate: wire.WarrantyDate,
		Condition:    wire.Condition,
	}
	if wire.Accessories != nil {
		rec.Accessories = models.Accessories{
			HasWarrantyCard:  wire.Accessories.HasWarrantyCard,
			HasBox:           wire.Accessories.HasBox,
			OtherDescription: wire.Accessories.OtherDescription,
		}
	}
	return rec, nil
}

// parsePrice accepts only whole JSON numbers; strings, fractions, and
// anything else decode to nil.
func parsePrice(raw json.RawMessage) *int64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f == float64(int64(f)) {
		return models.IntPtr(int64(f))
	}
	return nil
}

// CleanJSON strips markdown code fences and surrounding prose from a model
// response, keeping the outermost JSON object.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
