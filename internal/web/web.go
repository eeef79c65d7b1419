package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	// StaticDir holds the built dashboard (index.html and assets).
	StaticDir string
	// ProxyTarget receives /api requests no local route handles.
	ProxyTarget string
	Logger      *zap.Logger
}

// Register mounts /health and the fallback that serves the dashboard and
// forwards unknown /api calls.
func Register(r *gin.Engine, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.GET("/health", Health)

	var proxy http.Handler
	if opts.ProxyTarget != "" {
		target, err := url.Parse(opts.ProxyTarget)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return fmt.Errorf("invalid API_PROXY_TARGET %q", opts.ProxyTarget)
		}
		proxy = NewProxy(target, logger)
	}

	if opts.StaticDir != "" {
		info, err := os.Stat(opts.StaticDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("static directory %q does not exist", opts.StaticDir)
		}
	}

	r.NoRoute(fallback(proxy, opts.StaticDir))
	return nil
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewProxy forwards requests to target, rewriting Host to the target's.
func NewProxy(target *url.URL, logger *zap.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("proxy error",
				zap.String("path", r.URL.Path),
				zap.String("target", target.Host),
				zap.Error(err),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"proxy error"}`))
		},
	}
}

func fallback(proxy http.Handler, staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path

		if proxy != nil && (p == "/api" || strings.HasPrefix(p, "/api/")) {
			proxy.ServeHTTP(c.Writer, c.Request)
			return
		}

		if staticDir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
