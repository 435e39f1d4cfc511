package frpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	coreerrors "sandbox-tunnel/internal/core/errors"
)

// download 下载一次 DownloadURL 到 WorkPath，超时由 DownloadTimeout 限定，不重试
func (r *Resolver) download(ctx context.Context) (int64, error) {
	dctx := ctx
	if r.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, r.DownloadTimeout)
		defer cancel()
	}

	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(dctx, http.MethodGet, r.DownloadURL, nil)
	if err != nil {
		return 0, coreerrors.Wrapf(err, coreerrors.CodeDownloadFailed, "invalid download URL %q", r.DownloadURL)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, downloadError(err, r.DownloadURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, coreerrors.Newf(coreerrors.CodeDownloadFailed, "unexpected status %s", resp.Status).
			WithDetail("url", r.DownloadURL).
			WithDetail("status", strconv.Itoa(resp.StatusCode))
	}

	n, err := writeAtomic(r.WorkPath, resp.Body)
	if err != nil {
		return n, downloadError(err, r.DownloadURL)
	}

	r.Logger.WithField("path", r.WorkPath).Infof("downloaded frpc (%s)", humanize.Bytes(uint64(n)))
	return n, nil
}

func downloadError(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return coreerrors.Wrap(coreerrors.Wrap(err, coreerrors.CodeTimeout, "download timed out"),
			coreerrors.CodeDownloadFailed, fmt.Sprintf("failed to download %s", url)).
			WithDetail("url", url)
	}
	return coreerrors.Wrapf(err, coreerrors.CodeDownloadFailed, "failed to download %s", url).
		WithDetail("url", url)
}
