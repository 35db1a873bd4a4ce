package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"clinic/pkg/model"
)

// ClinicClient wraps the booking and auth endpoints with typed calls.
type ClinicClient struct {
	httpClient *HttpClient
}

func NewClinicClient(baseUrl string) *ClinicClient {
	return &ClinicClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ClinicClient) HTTP() *HttpClient {
	return c.httpClient
}

type SlotCatalog struct {
	Slots              []string `json:"slots"`
	GranularityMinutes int      `json:"granularity_minutes"`
}

type Availability struct {
	ProviderID string   `json:"provider_id"`
	Date       string   `json:"date"`
	Slots      []string `json:"slots"`
}

// Login stores the returned token for subsequent calls.
func (c *ClinicClient) Login(ctx context.Context, email, password string) (*model.AuthToken, error) {
	resp, err := c.httpClient.POST(ctx, "/api/v1/auth/login", model.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var token model.AuthToken
	if err := decodeData(resp, &token); err != nil {
		return nil, err
	}
	c.httpClient.SetToken(token.Token)
	return &token, nil
}

func (c *ClinicClient) Slots(ctx context.Context) (*SlotCatalog, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/slots")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var catalog SlotCatalog
	return &catalog, decodeData(resp, &catalog)
}

func (c *ClinicClient) Available(ctx context.Context, providerID, date string) (*Availability, error) {
	q := url.Values{}
	q.Set("provider_id", providerID)
	q.Set("date", date)

	resp, err := c.httpClient.GET(ctx, "/api/v1/bookings/available?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}
	var availability Availability
	return &availability, decodeData(resp, &availability)
}

// CreateBooking sends idempotencyKey, when set, so a retried call cannot
// double-book.
func (c *ClinicClient) CreateBooking(ctx context.Context, candidate *model.BookingCandidate, idempotencyKey string) (*model.Booking, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	resp, err := c.httpClient.POSTWithHeaders(ctx, "/api/v1/bookings", candidate, headers)
	if err != nil {
		return nil, err
	}
	return decodeBooking(resp, http.StatusCreated)
}

func (c *ClinicClient) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, bookingPath(id))
	if err != nil {
		return nil, err
	}
	return decodeBooking(resp, http.StatusOK)
}

func (c *ClinicClient) ListBookings(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, *Metadata, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("provider_id", filter.ProviderID)
	set("date", filter.Date)
	set("status", string(filter.Status))
	set("requester_id", filter.RequesterID)
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.FormatInt(filter.Offset, 10))
	}

	path := "/api/v1/bookings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := checkStatus(resp, http.StatusOK); err != nil {
		return nil, nil, err
	}
	var bookings []*model.Booking
	meta, err := decodePage(resp, &bookings)
	if err != nil {
		return nil, nil, err
	}
	return bookings, meta, nil
}

func (c *ClinicClient) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.POST(ctx, bookingPath(id)+"/cancel", nil)
	if err != nil {
		return nil, err
	}
	return decodeBooking(resp, http.StatusOK)
}

func (c *ClinicClient) CompleteBooking(ctx context.Context, id string) (*model.Booking, error) {
	resp, err := c.httpClient.POST(ctx, bookingPath(id)+"/complete", nil)
	if err != nil {
		return nil, err
	}
	return decodeBooking(resp, http.StatusOK)
}

func (c *ClinicClient) DeleteBooking(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, bookingPath(id))
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

func bookingPath(id string) string {
	return "/api/v1/bookings/id/" + url.PathEscape(id)
}

func decodeBooking(resp *Response, want int) (*model.Booking, error) {
	if err := checkStatus(resp, want); err != nil {
		return nil, err
	}
	var booking model.Booking
	if err := decodeData(resp, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
