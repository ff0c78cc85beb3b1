package transfer

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

// UploadZipFile posts one archive as the multipart field "file" to /upload-zip.
// The decoded response body is returned on success.
func (c *Client) UploadZipFile(ctx context.Context, item types.QueueItem) (any, error) {
	if item.Payload == nil {
		return nil, fmt.Errorf("invalid parameters: %s has no readable payload", item.Name)
	}
	url, err := tool.BuildUploadZipURL(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload URL: %v", err)
	}

	rep, err := c.do(ctx, "upload-zip", func(ctx context.Context) (*http.Request, error) {
		src, err := item.Payload.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %v", item.Name, err)
		}

		pr, pw := io.Pipe()
		mw := multipart.NewWriter(pw)
		go func() {
			defer src.Close()
			pw.CloseWithError(writeZipPart(ctx, mw, item.Name, src))
		}()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
		if err != nil {
			_ = pr.CloseWithError(err)
			return nil, fmt.Errorf("failed to create upload request: %v", err)
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	tool.DefaultLogger.Debugf("[Transfer] %s uploaded (%s)", item.Name, rep.Status)
	return decodeBody(rep.Body), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeZipPart(ctx context.Context, mw *multipart.Writer, name string, src io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", tool.DetectFileType(name))
	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := tool.CopyWithContext(ctx, part, src); err != nil {
		return err
	}
	return mw.Close()
}
