package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	goerrors "github.com/goliatone/go-errors"
)

// signatureUploadType tags the uploaded asset so the storage service
// files it as a digital signature.
const signatureUploadType = "FIRMA_DIGITAL"

// UploadSignature sends the encoded signature image as a multipart
// upload and returns the opaque storage key the server minted for it.
func (c *Client) UploadSignature(ctx context.Context, filename string, image []byte) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build signature upload")
	}
	if _, err := part.Write(image); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build signature upload")
	}
	if err := form.Close(); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build signature upload")
	}

	endpoint := fmt.Sprintf("%s/api/v1/storage/upload?type=%s", c.baseURL, signatureUploadType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if token := c.credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, msgConnectionError)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, msgConnectionError)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.envelopeError(resp.StatusCode, raw)
	}

	var reply struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, msgInvalidResponse)
	}
	return reply.Key, nil
}

// DownloadURL returns the public download address for a stored asset key.
func (c *Client) DownloadURL(key string) string {
	return fmt.Sprintf("%s/api/v1/storage/download?key=%s", c.baseURL, url.QueryEscape(key))
}
