// Package client is a Go client for the addressbook user API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/hystrix"

	"github.com/redhat-data-and-ai/addressbook/pkg/request"
	"github.com/redhat-data-and-ai/addressbook/pkg/request/httpclient"
	"github.com/redhat-data-and-ai/addressbook/pkg/store"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

const (
	serviceName = "addressbook"

	readRetryCount = 3
)

type Config struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"apiKey"`
}

// Client calls the user endpoints and decodes status codes back into store outcomes.
// Mutations are sent exactly once: a retried Add whose first response was lost would
// report DuplicateName for the record it just created.
type Client struct {
	readClient  *hystrix.Client
	writeClient *hystrix.Client
	baseURL     string
	apiKey      string
}

func NewClient(cfg Config, poolCfg httpclient.ConnectionPoolConfig,
	hystrixCfg httpclient.HystrixResiliencyConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("addressbook client configuration is missing required field: URL")
	}

	readClient, err := httpclient.InitializeClient(
		serviceName+"-read",
		poolCfg,
		hystrixCfg,
		heimdall.NewRetrier(heimdall.NewConstantBackoff(100*time.Millisecond, 50*time.Millisecond)),
		readRetryCount,
		nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize http client: %w", err)
	}

	writeClient, err := httpclient.InitializeClient(serviceName+"-write", poolCfg, hystrixCfg, nil, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize http client: %w", err)
	}

	return &Client{
		readClient:  readClient,
		writeClient: writeClient,
		baseURL:     strings.TrimSuffix(cfg.URL, "/"),
		apiKey:      cfg.APIKey,
	}, nil
}

func (c *Client) Add(ctx context.Context, user types.User) (store.Result, error) {
	return c.mutate(ctx, http.MethodPost, c.baseURL+"/api/user", &user, "client.AddUser")
}

func (c *Client) Update(ctx context.Context, name string, user types.User) (store.Result, error) {
	return c.mutate(ctx, http.MethodPut, c.userURL(name), &user, "client.UpdateUser")
}

func (c *Client) Delete(ctx context.Context, name string) (store.Result, error) {
	return c.mutate(ctx, http.MethodDelete, c.userURL(name), nil, "client.DeleteUser")
}

func (c *Client) List(ctx context.Context) ([]types.User, error) {
	body, status, err := c.send(ctx, c.readClient, http.MethodGet, c.baseURL+"/api/user", nil, "client.GetAllUsers")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", status, string(body))
	}

	users := []types.User{}
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return users, nil
}

func (c *Client) userURL(name string) string {
	return c.baseURL + "/api/user/" + url.PathEscape(name)
}

func (c *Client) mutate(ctx context.Context, method, url string, user *types.User, methodName string) (store.Result, error) {
	body, status, err := c.send(ctx, c.writeClient, method, url, user, methodName)
	if err != nil {
		return store.Result{}, err
	}

	message := string(body)
	outcome, err := outcomeFor(status, message)
	if err != nil {
		return store.Result{}, err
	}
	return store.Result{Outcome: outcome, Message: message}, nil
}

func (c *Client) send(ctx context.Context, doer heimdall.Doer, method, url string, payload interface{},
	methodName string) ([]byte, int, error) {
	var requestBody []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		requestBody = data
	}

	req, err := request.NewRequest(ctx, method, url, requestBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	headers := map[string]string{"Accept": "application/json"}
	if payload != nil {
		headers["Content-Type"] = "application/json"
	}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}
	req.SetHeaders(headers)

	body, status, err := req.MakeRequest(doer, methodName, serviceName)
	if err != nil {
		return nil, status, fmt.Errorf("request failed: %w", err)
	}
	return body, status, nil
}

// outcomeFor reverses the server's status mapping. 404 carries both absence variants,
// told apart by the message.
func outcomeFor(status int, message string) (store.Outcome, error) {
	switch status {
	case http.StatusOK:
		for _, o := range []store.Outcome{store.OutcomeAdded, store.OutcomeUpdated, store.OutcomeDeleted} {
			if message == o.Message() {
				return o, nil
			}
		}
		return store.OutcomeUnknown, fmt.Errorf("unexpected success message: %s", message)
	case http.StatusConflict:
		return store.OutcomeDuplicateName, nil
	case http.StatusNotFound:
		if message == store.OutcomeNoCollection.Message() {
			return store.OutcomeNoCollection, nil
		}
		return store.OutcomeNotFound, nil
	default:
		return store.OutcomeUnknown, fmt.Errorf("unexpected status code: %d, response: %s", status, message)
	}
}
