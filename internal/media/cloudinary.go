package media

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zvrva/staybook/config"
	"github.com/zvrva/staybook/internal/domain"
)

// Uploader sends an image to the media host and returns its durable public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, publicID string) (string, error)
}

type CloudinaryUploader struct {
	cfg    config.MediaConfig
	client *http.Client
}

func NewCloudinaryUploader(cfg config.MediaConfig) *CloudinaryUploader {
	return &CloudinaryUploader{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, publicID string) (string, error) {
	if u.cfg.CloudName == "" || u.cfg.APIKey == "" || u.cfg.APISecret == "" {
		return "", domain.NewInternal("media host is not configured", nil)
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + u.cfg.CloudName + "/image/upload"

	finalPublicID := publicID
	if u.cfg.Folder != "" {
		finalPublicID = u.cfg.Folder + "/" + publicID
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(data))
	form.Add("api_key", u.cfg.APIKey)
	form.Add("public_id", finalPublicID)
	form.Add("timestamp", timestamp)
	form.Add("signature", u.sign(finalPublicID, timestamp))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewUpstreamTimeout("media upload timed out", err)
		}
		return "", domain.NewUpstream("media upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewUpstream(fmt.Sprintf("media host returned status %d", resp.StatusCode), nil)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", domain.NewUpstream("failed to decode media host response", err)
	}
	if out.SecureURL == "" {
		return "", domain.NewUpstream("media host returned no URL", nil)
	}
	return out.SecureURL, nil
}

// Cloudinary signs uploads with sha1 over the sorted params plus the secret.
func (u *CloudinaryUploader) sign(publicID, timestamp string) string {
	toSign := "public_id=" + publicID + "&timestamp=" + timestamp + u.cfg.APISecret
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}

var _ Uploader = (*CloudinaryUploader)(nil)
