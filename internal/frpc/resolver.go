package frpc

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"sandbox-tunnel/internal/config/schema"
	coreerrors "sandbox-tunnel/internal/core/errors"
	corelog "sandbox-tunnel/internal/core/log"
)

// BinarySource 二进制来源
type BinarySource int

const (
	SourceNone BinarySource = iota
	SourceLocal
	SourceDownload
)

func (s BinarySource) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceDownload:
		return "download"
	default:
		return "none"
	}
}

// Resolution 二进制解析结果
// Err 非空表示未获得二进制；ChmodErr 只记录，不影响 Found
type Resolution struct {
	Path      string
	Source    BinarySource
	Candidate string // 命中的本地候选路径
	Version   string // 版本查询失败时为空
	ChmodErr  error
	Err       error
}

// Found 是否获得了可用的二进制路径
func (r Resolution) Found() bool {
	return r.Err == nil && r.Path != ""
}

// Resolver 依次检查本地候选路径，全部不存在时下载一次
type Resolver struct {
	Candidates      []string
	WorkPath        string
	DownloadURL     string
	DownloadTimeout time.Duration
	VersionFlag     string
	VersionTimeout  time.Duration
	HTTPClient      *http.Client
	Logger          corelog.Logger

	chmod func(name string, mode os.FileMode) error // nil 时使用 os.Chmod
}

// NewResolver 从配置创建 Resolver
func NewResolver(cfg schema.BinaryConfig, logger corelog.Logger) *Resolver {
	if logger == nil {
		logger = corelog.Default()
	}
	return &Resolver{
		Candidates:      cfg.Candidates,
		WorkPath:        cfg.WorkPath,
		DownloadURL:     cfg.DownloadURL,
		DownloadTimeout: cfg.DownloadTimeout,
		VersionFlag:     cfg.VersionFlag,
		VersionTimeout:  cfg.VersionTimeout,
		HTTPClient:      http.DefaultClient,
		Logger:          logger,
	}
}

// Resolve 获取 frpc 二进制，不会 panic，失败信息全部放在 Resolution 中
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	var res Resolution

	path, candidate, src, err := r.acquire(ctx)
	if err != nil {
		r.Logger.WithError(err).Error("frpc binary not found, tunnel will not be available")
		res.Err = err
		return res
	}
	res.Path, res.Candidate, res.Source = path, candidate, src

	chmod := r.chmod
	if chmod == nil {
		chmod = os.Chmod
	}
	if err := chmod(path, 0755); err != nil {
		res.ChmodErr = coreerrors.Wrapf(err, coreerrors.CodePermission, "chmod %s", path)
		r.Logger.WithError(res.ChmodErr).Warn("failed to set executable permission")
	}

	res.Version = r.queryVersion(ctx, path)
	if res.Version != "" {
		r.Logger.WithField("version", res.Version).Infof("frpc ready at %s (%s)", path, src)
	} else {
		r.Logger.Infof("frpc ready at %s (%s)", path, src)
	}
	return res
}

func (r *Resolver) acquire(ctx context.Context) (path, candidate string, src BinarySource, err error) {
	for _, c := range r.Candidates {
		info, statErr := os.Stat(c)
		if statErr != nil || info.IsDir() {
			r.Logger.Debugf("frpc candidate %s not present", c)
			continue
		}

		// 第一个存在的候选即采用，复制失败不再尝试其余候选
		if err := copyBinary(c, r.WorkPath); err != nil {
			return "", "", SourceNone, coreerrors.Wrapf(err, coreerrors.CodeBinaryNotFound,
				"failed to stage candidate %s", c).WithDetail("candidate", c)
		}
		r.Logger.WithField("candidate", c).Info("found local frpc binary")
		return r.WorkPath, c, SourceLocal, nil
	}

	if r.DownloadURL == "" {
		return "", "", SourceNone, coreerrors.New(coreerrors.CodeBinaryNotFound,
			"no local candidate exists and no download URL is configured")
	}

	r.Logger.WithField("url", r.DownloadURL).Info("no local frpc binary, downloading")
	if _, err := r.download(ctx); err != nil {
		return "", "", SourceNone, coreerrors.Wrap(err, coreerrors.CodeBinaryNotFound,
			"no local candidate exists and download failed")
	}
	return r.WorkPath, "", SourceDownload, nil
}

// queryVersion 执行 <bin> -v，任何失败都只记录调试日志
func (r *Resolver) queryVersion(ctx context.Context, path string) string {
	if r.VersionFlag == "" {
		return ""
	}

	qctx := ctx
	if r.VersionTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, r.VersionTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(qctx, path, r.VersionFlag)
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.Logger.WithError(coreerrors.Wrap(err, coreerrors.CodeVersionQuery, "version query failed")).
			Debug("ignoring frpc version query failure")
		return ""
	}
	return strings.TrimSpace(string(out))
}

// copyBinary 把候选文件复制到工作路径
// 先写临时文件再 rename，避免覆盖正在运行的二进制
func copyBinary(src, dst string) error {
	if same, err := samePath(src, dst); err == nil && same {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = writeAtomic(dst, in)
	return err
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

// writeAtomic 将 r 的内容写到 dst，返回写入字节数
func writeAtomic(dst string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return n, err
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return n, err
	}
	return n, nil
}
