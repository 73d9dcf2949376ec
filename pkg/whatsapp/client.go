package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

type ClientInterface interface {
	SendText(ctx context.Context, to, text string) (string, error)
	SendButtons(ctx context.Context, to, text string, buttons []ReplyButton) (string, error)
}

type Client struct {
	baseURL    string
	apiVersion string
	phoneID    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiVersion, phoneID, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiVersion: apiVersion,
		phoneID:    phoneID,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type ReplyButton struct {
	ID    string
	Title string
}

type textBody struct {
	Body string `json:"body"`
}

type messageRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textBody    `json:"text,omitempty"`
	Interactive      *interactive `json:"interactive,omitempty"`
}

type interactive struct {
	Type   string            `json:"type"`
	Body   textBody          `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveAction struct {
	Buttons []interactiveButton `json:"buttons"`
}

type interactiveButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type messageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

func (c *Client) SendText(ctx context.Context, to, text string) (string, error) {
	return c.send(ctx, messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               NormalizePhone(to),
		Type:             "text",
		Text:             &textBody{Body: text},
	})
}

// SendButtons sends an interactive message; the button id comes back in the
// reply webhook.
func (c *Client) SendButtons(ctx context.Context, to, text string, buttons []ReplyButton) (string, error) {
	action := interactiveAction{}
	for _, b := range buttons {
		action.Buttons = append(action.Buttons, interactiveButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: b.Title},
		})
	}

	return c.send(ctx, messageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               NormalizePhone(to),
		Type:             "interactive",
		Interactive: &interactive{
			Type:   "button",
			Body:   textBody{Body: text},
			Action: action,
		},
	})
}

func (c *Client) send(ctx context.Context, payload messageRequest) (string, error) {
	if c.phoneID == "" || c.apiKey == "" {
		return "", fmt.Errorf("credenciales de WhatsApp no configuradas")
	}

	apiURL := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneID)

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error serializando JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("error creando la petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error enviando la petición a WhatsApp: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var waResp messageResponse
	if err := json.Unmarshal(body, &waResp); err != nil {
		return "", fmt.Errorf("respuesta de WhatsApp ilegible (HTTP %d): %w", resp.StatusCode, err)
	}
	if waResp.Error != nil {
		return "", fmt.Errorf("error de la API de WhatsApp: código %d, %s", waResp.Error.Code, waResp.Error.Message)
	}
	if resp.StatusCode >= 300 || len(waResp.Messages) == 0 {
		return "", fmt.Errorf("WhatsApp respondió HTTP %d sin id de mensaje", resp.StatusCode)
	}

	return waResp.Messages[0].ID, nil
}

var nonDigitRegexp = regexp.MustCompile(`\D`)

// NormalizePhone keeps digits only and assumes Spain (+34) for 9-digit numbers.
func NormalizePhone(phone string) string {
	digits := nonDigitRegexp.ReplaceAllString(phone, "")
	if len(digits) == 9 {
		return "34" + digits
	}
	return digits
}

// ManualLink builds the wa.me link an operator opens in the browser when
// automatic dispatch is not configured.
func ManualLink(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), url.QueryEscape(text))
}
