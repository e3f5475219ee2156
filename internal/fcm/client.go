package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2/jwt"

	"github.com/edvin/opsdash/internal/metrics"
)

const (
	messagingScope   = "https://www.googleapis.com/auth/firebase.messaging"
	defaultTokenURL  = "https://oauth2.googleapis.com/token"
	notificationIcon = "/icon-192.png"
)

// ErrNotConfigured is returned when the service account credentials are
// incomplete.
var ErrNotConfigured = errors.New("fcm: service account not configured")

type Config struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	APIURL      string
	IIDURL      string
	// TokenURL overrides the OAuth2 token endpoint.
	TokenURL string
}

// Message is a data + webpush notification addressed to a topic.
type Message struct {
	Topic     string
	Title     string
	Body      string
	URL       string
	Type      string
	ProjectID string
}

type Client struct {
	projectID  string
	apiURL     string
	iidURL     string
	httpClient *http.Client
}

// NewClient builds a Firebase Cloud Messaging HTTP v1 client. Requests
// are authorized with an access token minted from the service account
// key. A client built from incomplete credentials reports Configured()
// false and fails every call with ErrNotConfigured.
func NewClient(cfg Config) *Client {
	if cfg.ProjectID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return &Client{}
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	jwtCfg := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{messagingScope},
		TokenURL:   tokenURL,
	}
	return newClient(cfg, jwtCfg.Client(context.Background()))
}

func newClient(cfg Config, httpClient *http.Client) *Client {
	return &Client{
		projectID:  cfg.ProjectID,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		iidURL:     strings.TrimRight(cfg.IIDURL, "/"),
		httpClient: httpClient,
	}
}

// Configured reports whether credentials were supplied.
func (c *Client) Configured() bool {
	return c != nil && c.httpClient != nil
}

type sendRequest struct {
	Message wireMessage `json:"message"`
}

type wireMessage struct {
	Topic   string            `json:"topic"`
	Data    map[string]string `json:"data"`
	Webpush wireWebpush       `json:"webpush"`
}

type wireWebpush struct {
	Notification wireNotification `json:"notification"`
	FCMOptions   wireFCMOptions   `json:"fcm_options"`
}

type wireNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
}

type wireFCMOptions struct {
	Link string `json:"link"`
}

// Send publishes msg and returns the gateway's message name.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body := sendRequest{Message: wireMessage{
		Topic: msg.Topic,
		Data: map[string]string{
			"title":     msg.Title,
			"body":      msg.Body,
			"url":       msg.URL,
			"type":      msg.Type,
			"projectId": msg.ProjectID,
		},
		Webpush: wireWebpush{
			Notification: wireNotification{Title: msg.Title, Body: msg.Body, Icon: notificationIcon},
			FCMOptions:   wireFCMOptions{Link: msg.URL},
		},
	}}

	var resp struct {
		Name string `json:"name"`
	}
	url := fmt.Sprintf("%s/v1/projects/%s/messages:send", c.apiURL, c.projectID)
	if err := c.post(ctx, url, nil, body, &resp); err != nil {
		return "", fmt.Errorf("sending to topic %s: %w", msg.Topic, err)
	}
	return resp.Name, nil
}

// Subscribe adds a device registration token to a topic.
func (c *Client) Subscribe(ctx context.Context, token, topic string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body := map[string]any{
		"to":                  "/topics/" + topic,
		"registration_tokens": []string{token},
	}
	var resp struct {
		Results []struct {
			Error string `json:"error"`
		} `json:"results"`
	}
	headers := map[string]string{"access_token_auth": "true"}
	if err := c.post(ctx, c.iidURL+"/iid/v1:batchAdd", headers, body, &resp); err != nil {
		return fmt.Errorf("subscribing to topic %s: %w", topic, err)
	}
	for _, r := range resp.Results {
		if r.Error != "" {
			return fmt.Errorf("subscribing to topic %s: %s", topic, r.Error)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, headers map[string]string, body, result any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamFCM, metrics.OutcomeError)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(metrics.UpstreamFCM, metrics.OutcomeError)
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveUpstream(metrics.UpstreamFCM, metrics.OutcomeError)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	metrics.ObserveUpstream(metrics.UpstreamFCM, metrics.OutcomeOK)

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
