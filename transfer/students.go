package transfer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

// ListZipFiles returns every archive uploaded by the customer.
func (c *Client) ListZipFiles(ctx context.Context, userID string) ([]types.ZipFileRecord, error) {
	url, err := tool.BuildZipFilesURL(c.baseURL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build zip files URL: %v", err)
	}
	rep, err := c.get(ctx, "get_all_students_zip_files", url)
	if err != nil {
		return nil, err
	}
	return decodeList[types.ZipFileRecord](rep.Body)
}

// ListZipDocuments returns the documents extracted from one archive.
func (c *Client) ListZipDocuments(ctx context.Context, zipFileID string) ([]types.DocumentRecord, error) {
	url, err := tool.BuildZipDocumentsURL(c.baseURL, zipFileID)
	if err != nil {
		return nil, fmt.Errorf("failed to build zip documents URL: %v", err)
	}
	rep, err := c.get(ctx, "get_all_files_within_zip_file", url)
	if err != nil {
		return nil, err
	}
	return decodeList[types.DocumentRecord](rep.Body)
}

func (c *Client) get(ctx context.Context, op, url string) (*reply, error) {
	return c.do(ctx, op, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %v", op, err)
		}
		return req, nil
	})
}
