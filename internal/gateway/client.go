package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"

	"iteminsight/internal/core"
)

var requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "iteminsight_gateway_requests_total",
	Help: "The total number of API requests, by endpoint and outcome.",
}, []string{"endpoint", "outcome"})

// Client is the typed boundary to the ItemInsight HTTP API. It holds
// no business state, every method is one endpoint.
type Client struct {
	Logger *slog.Logger
	Config *core.Config

	client *resty.Client
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "gateway.Client")

	c.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         2 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   2 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}).SetBaseURL(c.Config.APIURL)

	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.client.R().WithContext(ctx)
}

// envelope is the discriminated result shape shared by most
// endpoints. Endpoints that deviate normalize to it in their own
// method, controllers never branch on response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// check maps a resty outcome to the error taxonomy: transport
// failures become *core.ConnectError, non-2xx or success=false become
// *core.APIError carrying the server message when there is one.
func check(endpoint string, res *resty.Response, err error, ok bool, message string) error {
	if err != nil {
		requests.WithLabelValues(endpoint, "connect_error").Inc()
		return &core.ConnectError{Err: err}
	}

	if res.IsError() || !ok {
		requests.WithLabelValues(endpoint, "rejected").Inc()
		return &core.APIError{Status: res.StatusCode(), Message: message}
	}

	requests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}
