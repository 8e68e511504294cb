package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/logger"
)

// uploadAttempts bounds the retry budget per pin call
const uploadAttempts = 3

// AssetMetadata is the descriptive payload embedded into the metadata JSON
type AssetMetadata struct {
	Name        string
	Description string
	Rarity      string
}

// UploadResult carries the pinned references for an asset
type UploadResult struct {
	ImageRef    string `json:"image_ref"`
	MetadataRef string `json:"metadata_ref"`
	MetadataURI string `json:"metadata_uri"`
	ImageURL    string `json:"image_url"`
	MetadataURL string `json:"metadata_url"`
}

// Uploader pins asset content and metadata to content-addressable storage
//
//go:generate mockgen -source=uploader.go -destination=../mocks/uploader.go -package=mocks -mock_names=Uploader=MockUploader
type Uploader interface {
	// UploadAsset pins the image, then the metadata JSON referencing it
	UploadAsset(ctx context.Context, meta AssetMetadata, image io.Reader, imageName string) (*UploadResult, error)
	// UploadMetadata pins a metadata JSON with no image leg
	UploadMetadata(ctx context.Context, meta AssetMetadata) (*UploadResult, error)
}

// Config holds the pinning service connection
type Config struct {
	APIURL  string
	JWT     string
	Gateway string
}

type pinataUploader struct {
	http adapter.HTTPClient
	cfg  Config
}

// NewUploader creates a Pinata-backed uploader
func NewUploader(http adapter.HTTPClient, cfg Config) Uploader {
	return &pinataUploader{http: http, cfg: cfg}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// UploadAsset pins the image, then the metadata JSON referencing it.
// Both legs retry with exponential backoff before giving up.
func (u *pinataUploader) UploadAsset(ctx context.Context, meta AssetMetadata, image io.Reader, imageName string) (*UploadResult, error) {
	imageRef, err := u.pinFile(ctx, image, imageName)
	if err != nil {
		return nil, fmt.Errorf("failed to pin image: %w", err)
	}

	metadata := metadataDocument(meta)
	metadata["image"] = "ipfs://" + imageRef

	metadataRef, err := u.pinJSON(ctx, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to pin metadata: %w", err)
	}

	logger.Info("asset pinned",
		zap.String("image_ref", imageRef),
		zap.String("metadata_ref", metadataRef))

	return &UploadResult{
		ImageRef:    imageRef,
		MetadataRef: metadataRef,
		MetadataURI: "ipfs://" + metadataRef,
		ImageURL:    u.cfg.Gateway + "/ipfs/" + imageRef,
		MetadataURL: u.cfg.Gateway + "/ipfs/" + metadataRef,
	}, nil
}

// UploadMetadata pins a metadata JSON with no image leg. Used for
// claimed loot drops, which have no server-side artwork.
func (u *pinataUploader) UploadMetadata(ctx context.Context, meta AssetMetadata) (*UploadResult, error) {
	metadataRef, err := u.pinJSON(ctx, metadataDocument(meta))
	if err != nil {
		return nil, fmt.Errorf("failed to pin metadata: %w", err)
	}

	logger.Info("metadata pinned", zap.String("metadata_ref", metadataRef))

	return &UploadResult{
		MetadataRef: metadataRef,
		MetadataURI: "ipfs://" + metadataRef,
		MetadataURL: u.cfg.Gateway + "/ipfs/" + metadataRef,
	}, nil
}

// metadataDocument builds the token metadata payload
func metadataDocument(meta AssetMetadata) map[string]interface{} {
	return map[string]interface{}{
		"name":        meta.Name,
		"description": meta.Description,
		"attributes": []map[string]string{
			{"trait_type": "Rarity", "value": meta.Rarity},
		},
	}
}

// pinFile pins a file through the multipart endpoint
func (u *pinataUploader) pinFile(ctx context.Context, content io.Reader, name string) (string, error) {
	// The body is buffered once so every retry re-sends identical bytes
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to buffer file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return u.pin(ctx, u.cfg.APIURL+"/pinning/pinFileToIPFS", writer.FormDataContentType(), buf.Bytes())
}

// pinJSON pins a JSON document
func (u *pinataUploader) pinJSON(ctx context.Context, content interface{}) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{"pinataContent": content})
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	return u.pin(ctx, u.cfg.APIURL+"/pinning/pinJSONToIPFS", "application/json", payload)
}

func (u *pinataUploader) pin(ctx context.Context, url, contentType string, payload []byte) (string, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + u.cfg.JWT,
	}

	var ref string
	operation := func() error {
		body, err := u.http.Post(ctx, url, contentType, headers, bytes.NewReader(payload))
		if err != nil {
			return err
		}

		var resp pinResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to unmarshal pin response: %w", err))
		}
		if resp.IpfsHash == "" {
			return backoff.Permanent(fmt.Errorf("pin response missing hash"))
		}

		ref = resp.IpfsHash
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uploadAttempts-1)
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}

	return ref, nil
}
