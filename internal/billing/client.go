package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API is the slice of the billing provider this app consumes: subscription
// checkout hand-offs, listing/canceling existing subscriptions, and (in
// ConstructEvent) the signed event feed.
type API interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	ListActiveSubscriptions(ctx context.Context, customerID string) ([]Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

type CheckoutParams struct {
	PriceID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Customer      string `json:"customer"`
	CustomerEmail string `json:"customer_email"`
	Status        string `json:"status"`
}

type Subscription struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     "https://api.stripe.com/v1",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("stripe: %s (%s): %s", resp.Status, apiErr.Error.Type, apiErr.Error.Message)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_email", params.CustomerEmail)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", form)
	if err != nil {
		return nil, err
	}

	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) RetrieveCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ListActiveSubscriptions(ctx context.Context, customerID string) ([]Subscription, error) {
	path := "/subscriptions?status=active&customer=" + url.QueryEscape(customerID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var list struct {
		Data []Subscription `json:"data"`
	}
	if err := c.do(req, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(subscriptionID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
