package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/domain"
)

const (
	maxJSONBody = 10 << 20
	maxPDFBody  = 32 << 20
)

type ctxKey int

const bearerCtxKey ctxKey = iota

// WithBearer attaches a staff access token that is forwarded on every call made with ctx.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerCtxKey, token)
}

func bearerFrom(ctx context.Context) string {
	token, _ := ctx.Value(bearerCtxKey).(string)
	return token
}

// Client talks to the association REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.Upstream) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// NewClientWithHTTP is used when the caller owns the transport.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) GetEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	var event domain.Event
	if err := c.getJSON(ctx, "get event", eventPath(eventID, ""), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) Exhibitors(ctx context.Context, eventID int64) ([]domain.Exhibitor, error) {
	var exhibitors []domain.Exhibitor
	if err := c.getJSON(ctx, "list exhibitors", eventPath(eventID, "/exhibitors"), nil, &exhibitors); err != nil {
		return nil, err
	}
	return exhibitors, nil
}

func (c *Client) RegistrationStatus(ctx context.Context, eventID int64, phone string) (*StatusResponse, error) {
	var status StatusResponse
	query := url.Values{"phone": {phone}}
	if err := c.getJSON(ctx, "registration status", eventPath(eventID, "/registration-status"), query, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) InitiateRegistration(ctx context.Context, eventID int64, req InitiateRequest) (*InitiateResponse, error) {
	var resp InitiateResponse
	if err := c.postJSON(ctx, "initiate registration", eventPath(eventID, "/register"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, eventID int64, req ConfirmRequest) (*ConfirmResponse, error) {
	var resp ConfirmResponse
	if err := c.postJSON(ctx, "confirm payment", eventPath(eventID, "/confirm-payment"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PassPDF(ctx context.Context, eventID, registrationID int64) ([]byte, error) {
	path := eventPath(eventID, "/registrations/"+strconv.FormatInt(registrationID, 10)+"/pdf")
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.send(ctx, "download pass", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBody))
	if err != nil {
		return nil, &NetworkError{Op: "download pass", Err: err}
	}
	return data, nil
}

func (c *Client) SendWhatsApp(ctx context.Context, eventID, registrationID int64) error {
	path := eventPath(eventID, "/registrations/"+strconv.FormatInt(registrationID, 10)+"/send-whatsapp")
	return c.postJSON(ctx, "send whatsapp", path, struct{}{}, nil)
}

func (c *Client) CheckIn(ctx context.Context, qrToken string) (*CheckInResponse, error) {
	var resp CheckInResponse
	if err := c.postJSON(ctx, "check in", "/events/checkin", CheckInRequest{QRToken: qrToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Associations(ctx context.Context, city string) ([]domain.Association, error) {
	var associations []domain.Association
	if err := c.getJSON(ctx, "list associations", "/associations", url.Values{"city": {city}}, &associations); err != nil {
		return nil, err
	}
	return associations, nil
}

func (c *Client) EventRegistrations(ctx context.Context, eventID int64) ([]domain.Registration, error) {
	var registrations []domain.Registration
	if err := c.getJSON(ctx, "list registrations", eventPath(eventID, "/registrations"), nil, &registrations); err != nil {
		return nil, err
	}
	return registrations, nil
}

func (c *Client) Member(ctx context.Context, memberID int64) (*domain.Member, error) {
	var member domain.Member
	if err := c.getJSON(ctx, "get member", "/members/"+strconv.FormatInt(memberID, 10), nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UploadProfileImage posts the optimized photo and returns the hosted URL.
func (c *Client) UploadProfileImage(ctx context.Context, filename string, contentType string, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create multipart part failed: %w", err)
	}
	if _, err = part.Write(data); err != nil {
		return "", fmt.Errorf("write multipart part failed: %w", err)
	}
	if err = writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer failed: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/profile-image", nil, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out uploadResponse
	if err = c.doJSON(ctx, "upload profile image", req, &out); err != nil {
		return "", err
	}
	if out.URL != "" {
		return out.URL, nil
	}
	if out.ImageURL != "" {
		return out.ImageURL, nil
	}
	return "", &APIError{Status: http.StatusBadGateway, Message: "upload response did not contain an image url"}
}

func (c *Client) getJSON(ctx context.Context, op string, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, op, req, out)
}

func (c *Client) postJSON(ctx context.Context, op string, path string, in any, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request failed: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doJSON(ctx, op, req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := bearerFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) doJSON(ctx context.Context, op string, req *http.Request, out any) error {
	resp, err := c.send(ctx, op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxJSONBody))
		return nil
	}

	if err = json.NewDecoder(io.LimitReader(resp.Body, maxJSONBody)).Decode(out); err != nil {
		if IsNetwork(err) {
			return &NetworkError{Op: op, Err: err}
		}
		return fmt.Errorf("%s: decode response failed: %w", op, err)
	}

	return nil
}

// send executes req and converts non-2xx answers into *APIError.
func (c *Client) send(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxJSONBody))
	apiErr := &APIError{Status: resp.StatusCode, Body: body}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return nil, apiErr
}

func eventPath(eventID int64, suffix string) string {
	return "/events/" + strconv.FormatInt(eventID, 10) + suffix
}
