package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Response is the upstream answer, passed back to the caller untouched.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client forwards images to the prediction service.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Predict posts the image as multipart field "file". Any HTTP status is a valid
// response; only transport failures return an error.
func (c *Client) Predict(ctx context.Context, filename, contentType string, image io.Reader) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := createFilePart(w, filename, contentType)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read classifier response: %w", err)
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func createFilePart(w *multipart.Writer, filename, contentType string) (io.Writer, error) {
	if contentType == "" {
		return w.CreateFormFile("file", filename)
	}
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="file"; filename=%q`, filename)}
	h["Content-Type"] = []string{contentType}
	return w.CreatePart(h)
}
