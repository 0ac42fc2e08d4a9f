package myhttpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"time"

	"golang.org/x/time/rate"

	"github.com/MarcGrol/workersdeploy/lib/mylog"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Deploy-to-CF-Workers"
)

type Options struct {
	Timeout   time.Duration
	MaxRPS    float64 // 0 means unlimited
	UserAgent string
	Debug     bool
}

type jsonHTTPClient struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    Options
	logger  mylog.Logger
}

func NewJSONHTTPClient(opts Options) HTTPSender {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	c := &jsonHTTPClient{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		opts:   opts,
		logger: mylog.New("httpclient"),
	}
	if opts.MaxRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxRPS), 1)
	}

	return c
}

func (c *jsonHTTPClient) Send(ctx context.Context, method string, url string, headers map[string]string, body []byte) (int, []byte, error) {
	if c.limiter != nil {
		err := c.limiter.Wait(ctx)
		if err != nil {
			return 0, nil, fmt.Errorf("rate limiter for %s %s: %s", method, url, err)
		}
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating http request for %s %s: %s", method, url, err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.opts.UserAgent)
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	if c.opts.Debug {
		reqDump, err := httputil.DumpRequestOut(httpReq, true)
		if err == nil {
			fmt.Printf("HTTP-req:\n%s", string(reqDump))
		}
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("error sending %s %s: %s", method, url, err)
	}
	defer httpResp.Body.Close()

	if c.opts.Debug {
		respDump, err := httputil.DumpResponse(httpResp, true)
		if err == nil {
			fmt.Printf("HTTP-resp:\n%s", string(respDump))
		}
	}

	respPayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("error reading response %s %s: %s", method, url, err)
	}

	c.logger.Log(ctx, "", mylog.SeverityDebug, "HTTP call: %s %s -> %d", method, url, httpResp.StatusCode)

	return httpResp.StatusCode, respPayload, nil
}
