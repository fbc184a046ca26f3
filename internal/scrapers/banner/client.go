// client.go fetches timetable result pages from the Banner self service
// "HZSKVTSC" class search endpoint.

package banner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/cookiejar"
	"net/url"
	"time"
	"timetable-backend/internal/assert"
	"timetable-backend/internal/components/telemetry"
	"timetable-backend/internal/timetable"
	"timetable-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint          = "https://selfservice.banner.vt.edu/ssb/HZSKVTSC.P_ProcRequest"
	DefaultCampus            = "0"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 2
	defaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

var tracer = otel.Tracer("timetable-backend/internal/scrapers/banner")

type Options struct {
	// Endpoint defaults to DefaultEndpoint.
	Endpoint string
	// Campus defaults to DefaultCampus.
	Campus string
	// Timeout is per request, it defaults to DefaultTimeout.
	Timeout time.Duration
	// RequestsPerSecond defaults to DefaultRequestsPerSecond, a negative
	// value disables the limiter.
	RequestsPerSecond float64
	// Burst defaults to 1 + RequestsPerSecond.
	Burst     int
	UserAgent string
	// CloudflareBypass wraps the transport with browser-like TLS and headers.
	CloudflareBypass bool
	// DumpDir, when set, receives a file per request/response exchange while
	// debug logging is enabled.
	DumpDir string
}

// Client implements timetable.PageFetcher. It keeps a single pooled
// connection and cookie jar until Close is called.
type Client struct {
	http     *resty.Client
	endpoint string
	campus   string
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("banner", tel)

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsedEndpoint, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	campus := opts.Campus
	if campus == "" {
		campus = DefaultCampus
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedEndpoint.Hostname()))
	httpClient.SetTimeout(timeout)

	if opts.RequestsPerSecond >= 0 {
		perSecond := opts.RequestsPerSecond
		if perSecond == 0 {
			perSecond = DefaultRequestsPerSecond
		}
		burst := opts.Burst
		if burst <= 0 {
			burst = 1 + int(perSecond)
		}
		rateLimiter := rate.NewLimiter(rate.Limit(perSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	if opts.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("dump dir: %w", err)
		}
		restyutil.InstrumentClient(httpClient, tracer, output)
	}

	return &Client{
		http:     httpClient,
		endpoint: parsedEndpoint.String(),
		campus:   campus,
	}, nil
}

func boolFlag(b bool) string {
	if b {
		return "on"
	}
	return ""
}

func (c *Client) formData(query timetable.Query) map[string]string {
	return map[string]string{
		"CAMPUS":           c.campus,
		"TERMYEAR":         query.Term,
		"CORE_CODE":        "AR%",
		"subj_code":        query.Subject,
		"SCHDTYPE":         "%",
		"CRSE_NUMBER":      query.CourseNumber,
		"crn":              query.CRN,
		"open_only":        boolFlag(query.OpenOnly),
		"disp_comments_in": "",
		"sess_code":        "%",
		"BTN_PRESSED":      "FIND class sections",
		"inst_name":        "",
	}
}

// decodeBody converts the body to UTF-8 using the declared charset, or a
// sniffed one when the header has none. An empty body is empty markup.
func decodeBody(body []byte, contentType string) (string, error) {
	if len(body) == 0 {
		return "", nil
	}
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// FetchPage posts the class search form and returns the decoded page.
func (c *Client) FetchPage(ctx context.Context, query timetable.Query) (string, error) {
	ctx, span := tracer.Start(ctx, "FetchPage")
	defer span.End()
	span.SetAttributes(
		attribute.String("term", query.Term),
		attribute.String("subject", query.Subject),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(c.formData(query)).
		Post(c.endpoint)
	if err != nil {
		err = classifyError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", err
	}
	if res.IsError() {
		err = &HTTPError{Status: res.StatusCode()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return "", err
	}

	page, err := decodeBody(res.Body(), res.Header().Get("content-type"))
	if err != nil {
		err = &TransportError{Err: fmt.Errorf("decode body: %w", err)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return "", err
	}
	span.SetAttributes(attribute.Int("bytes", len(page)))
	return page, nil
}

// Close releases idle connections, the client must not be used afterwards.
func (c *Client) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}
