package upload

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.cloudinary.com"
	videoFolder    = "lms-videos"
)

var ErrNotConfigured = errors.New("video upload is not configured")

// Uploader stores a video and returns a durable URL for it.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Cloudinary struct {
	client    *resty.Client
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		client:    resty.New().SetTimeout(5 * time.Minute),
		baseURL:   defaultBaseURL,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
}

func (c *Cloudinary) endpoint() string {
	return fmt.Sprintf("%s/v1_1/%s/video/upload", c.baseURL, c.cloudName)
}

// Sign implements Cloudinary's request signature: the sorted params joined
// as k=v pairs with "&", followed by the API secret, hashed with SHA-1.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func PublicID(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return videoFolder + "/" + base
}

func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	params := map[string]string{
		"public_id": PublicID(filename),
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}

	form := map[string]string{
		"api_key":   c.apiKey,
		"signature": Sign(params, c.apiSecret),
	}
	for k, v := range params {
		form[k] = v
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetFileReader("file", path.Base(filename), r).
		SetResult(&out).
		SetError(&out).
		Post(c.endpoint())
	if err != nil {
		return "", fmt.Errorf("cloudinary: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("cloudinary: status %d: %s", resp.StatusCode(), out.Error.Message)
	}
	if out.SecureURL == "" {
		return "", errors.New("cloudinary: response without secure_url")
	}

	return out.SecureURL, nil
}

// Disabled rejects every upload.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

var (
	_ Uploader = (*Cloudinary)(nil)
	_ Uploader = Disabled{}
)
