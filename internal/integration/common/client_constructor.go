package common

import (
	"github.com/futig/medi-assistant/internal/config"
	pkgHTTP "github.com/futig/medi-assistant/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a connector for one outbound service with the shared
// timeouts, request logging, bearer token and a circuit breaker named after it.
func NewBaseConnector(cfg config.HTTPClientConfig, baseURL, name string, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: baseURL,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithCircuitBreaker(name, cfg.BreakerOpenTimeout, logger),
	)
}
