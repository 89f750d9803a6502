package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"karigari/internal/apierr"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings required to talk to the backend.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the artisan platform HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a backend client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// LoginResult captures the login response. A non-empty UserID signals success
// and triggers identity persistence on the caller's side.
type LoginResult struct {
	Message string
	UserID  string
}

// Login authenticates the user with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return LoginResult{}, errors.New("login: email required")
	}
	if password == "" {
		return LoginResult{}, errors.New("login: password required")
	}
	params := url.Values{}
	params.Set("email", email)
	params.Set("password", password)

	var payload struct {
		Message string         `json:"message"`
		UserID  stringOrNumber `json:"user_id"`
	}
	if err := c.postQuery(ctx, "/login", params, &payload); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	return LoginResult{Message: payload.Message, UserID: string(payload.UserID)}, nil
}

// Registration carries the artisan profile submitted at signup.
type Registration struct {
	Name       string
	Email      string
	Password   string
	Craft      string
	Experience string
	Location   string
}

// Register creates a new artisan account and returns the backend's message.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	if strings.TrimSpace(reg.Name) == "" {
		return "", errors.New("register: name required")
	}
	if strings.TrimSpace(reg.Email) == "" {
		return "", errors.New("register: email required")
	}
	if reg.Password == "" {
		return "", errors.New("register: password required")
	}
	params := url.Values{}
	params.Set("name", strings.TrimSpace(reg.Name))
	params.Set("email", strings.TrimSpace(reg.Email))
	params.Set("password", reg.Password)
	params.Set("craft", strings.TrimSpace(reg.Craft))
	params.Set("experience", strings.TrimSpace(reg.Experience))
	params.Set("location", strings.TrimSpace(reg.Location))

	var payload struct {
		Message string `json:"message"`
	}
	if err := c.postQuery(ctx, "/register", params, &payload); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return payload.Message, nil
}

// Chat sends one user message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, userID, message string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("chat send: user id required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("chat send: message required")
	}
	params := url.Values{}
	params.Set("message", message)

	var payload struct {
		Reply string `json:"reply"`
	}
	if err := c.postQuery(ctx, "/chats/"+url.PathEscape(userID), params, &payload); err != nil {
		return "", fmt.Errorf("chat send: %w", err)
	}
	return payload.Reply, nil
}

// Story is the result of a story generation request. Audio holds the narrated
// clip as a base64-encoded payload.
type Story struct {
	Text  string
	Audio string
}

// GenerateStory asks the backend to write and narrate a story for the prompt.
func (c *Client) GenerateStory(ctx context.Context, userID, message string) (Story, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Story{}, errors.New("generate story: user id required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return Story{}, errors.New("generate story: message required")
	}
	form := url.Values{}
	form.Set("user_id", userID)
	form.Set("message", message)

	req, err := c.newRequest(ctx, http.MethodPost, "/voice/generate-story", strings.NewReader(form.Encode()))
	if err != nil {
		return Story{}, fmt.Errorf("generate story: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload struct {
		StoryText  string `json:"story_text"`
		StoryAudio string `json:"story_audio"`
	}
	if err := c.do(req, &payload); err != nil {
		return Story{}, fmt.Errorf("generate story: %w", err)
	}
	return Story{Text: payload.StoryText, Audio: payload.StoryAudio}, nil
}

// CaptionImage uploads an image and returns the raw model output, which
// embeds a fenced JSON caption payload. Parsing is the caller's concern.
func (c *Client) CaptionImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	if image == nil {
		return "", errors.New("caption image: image required")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "image"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("caption image: build form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("caption image: read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("caption image: finish form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/caption/image-caption", &body)
	if err != nil {
		return "", fmt.Errorf("caption image: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var payload struct {
		RawOutput string `json:"raw_output"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", fmt.Errorf("caption image: %w", err)
	}
	return payload.RawOutput, nil
}

func (c *Client) postQuery(ctx context.Context, path string, params url.Values, target any) error {
	endpoint := path
	if len(params) > 0 {
		endpoint = path + "?" + params.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, errors.New("base url required")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(resp.StatusCode, body)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError extracts the backend's failure shape. Only string-typed detail
// and message fields are retained; anything else would render unreadably.
func statusError(statusCode int, body []byte) *apierr.StatusError {
	status := &apierr.StatusError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
	var shape struct {
		Detail  any `json:"detail"`
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &shape); err == nil {
		if detail, ok := shape.Detail.(string); ok {
			status.Detail = strings.TrimSpace(detail)
		}
		if message, ok := shape.Message.(string); ok {
			status.Message = strings.TrimSpace(message)
		}
	}
	return status
}

// stringOrNumber tolerates backends that serialize identifiers and prices as
// either JSON strings or numbers.
type stringOrNumber string

func (s *stringOrNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*s = stringOrNumber(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	*s = stringOrNumber(number.String())
	return nil
}
