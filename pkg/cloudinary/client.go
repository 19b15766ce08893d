// Package cloudinary is a minimal unsigned-upload client for the Cloudinary
// media host.
package cloudinary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

const (
	DefaultAPIBase = "https://api.cloudinary.com/v1_1"
	DeliveryHost   = "res.cloudinary.com"

	presetNotFoundMarker = "Upload preset not found"
)

type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
)

// UploadParams describes a single upload attempt against one preset.
type UploadParams struct {
	ResourceType ResourceType
	Preset       string
	Folder       string
	Tags         []string
	PublicID     string

	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader

	// Progress, when set, receives whole percentages of the file body sent.
	Progress func(percent int)
}

// UploadResult is the subset of the upload response the service stores.
type UploadResult struct {
	PublicID         string   `json:"public_id"`
	Version          int64    `json:"version"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	Format           string   `json:"format"`
	ResourceType     string   `json:"resource_type"`
	Bytes            int64    `json:"bytes"`
	URL              string   `json:"url"`
	SecureURL        string   `json:"secure_url"`
	Folder           string   `json:"folder"`
	Tags             []string `json:"tags"`
	OriginalFilename string   `json:"original_filename"`
}

type Client struct {
	cloudName  string
	apiBase    string
	httpClient *http.Client
	setupHint  string
}

type Option func(*Client)

// WithAPIBase points the client at another API root, e.g. a test server.
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(base, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSetupHint sets the message returned when no cloud name is configured.
func WithSetupHint(hint string) Option {
	return func(c *Client) { c.setupHint = hint }
}

func NewClient(cloudName string, opts ...Option) *Client {
	c := &Client{
		cloudName:  strings.TrimSpace(cloudName),
		apiBase:    DefaultAPIBase,
		httpClient: &http.Client{},
		setupHint:  "Cloudinary cloud name is not configured",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CloudName() string { return c.cloudName }

func (c *Client) Configured() bool { return c.cloudName != "" }

// UploadURL returns the endpoint for a resource type.
func (c *Client) UploadURL(rt ResourceType) string {
	return fmt.Sprintf("%s/%s/%s/upload", c.apiBase, c.cloudName, rt)
}

// Upload performs exactly one upload attempt. Deadlines on ctx surface as
// KindTimeout; other transport failures as KindNetwork.
func (c *Client) Upload(ctx context.Context, p UploadParams) (*UploadResult, error) {
	if !c.Configured() {
		return nil, &UploadError{Kind: KindNotConfigured, Message: c.setupHint}
	}
	if p.ResourceType == "" {
		p.ResourceType = ResourceImage
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	written := make(chan struct{})
	go func() {
		defer close(written)
		pw.CloseWithError(writeForm(mw, p))
	}()
	// Progress callbacks come from the writer, so it must stop before we return.
	defer func() {
		pr.Close()
		<-written
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL(p.ResourceType), pr)
	if err != nil {
		return nil, &UploadError{Kind: KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, rejection(resp.StatusCode, body)
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil || result.SecureURL == "" {
		return nil, &UploadError{Kind: KindInvalidResponse, Message: "Invalid response from server", Status: resp.StatusCode}
	}
	return &result, nil
}

func writeForm(mw *multipart.Writer, p UploadParams) error {
	fields := [][2]string{
		{"upload_preset", p.Preset},
		{"folder", p.Folder},
		{"tags", strings.Join(p.Tags, ",")},
		{"public_id", p.PublicID},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(p.FileName)))
	if p.ContentType != "" {
		h.Set("Content-Type", p.ContentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	var src io.Reader = p.Body
	if p.Progress != nil && p.Size > 0 {
		src = &progressReader{r: p.Body, total: p.Size, report: p.Progress, last: -1}
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	return mw.Close()
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func rejection(status int, body []byte) error {
	var eb errorBody
	msg := "Upload failed"
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		msg = eb.Error.Message
	}
	kind := KindRejected
	if strings.Contains(msg, presetNotFoundMarker) {
		kind = KindPresetNotFound
	}
	return &UploadError{Kind: kind, Message: msg, Status: status}
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &UploadError{Kind: KindTimeout, Message: "Upload timeout"}
	}
	return &UploadError{Kind: KindNetwork, Message: "Network error during upload: " + err.Error()}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(int)
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	pr.read += int64(n)
	if pct := int(pr.read * 100 / pr.total); pct != pr.last && pct <= 100 {
		pr.last = pct
		pr.report(pct)
	}
	return n, err
}
