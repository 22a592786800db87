package redisstreams

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ajitpratap0/nebula-connect/pkg/config"
	"github.com/ajitpratap0/nebula-connect/pkg/errors"
	"github.com/gomodule/redigo/redis"
)

// DialFunc opens one connection. The pool calls it whenever it needs a new one.
type DialFunc func(ctx context.Context) (redis.Conn, error)

// dialOptions builds the redigo options for cfg: timeouts, password and TLS.
// TLS is used for rediss:// URLs or when a CA is configured.
func dialOptions(cfg *config.BaseConfig, redisURL string) ([]redis.DialOption, error) {
	opts := make([]redis.DialOption, 0, 6)
	if d := cfg.Timeouts.Connection; d > 0 {
		opts = append(opts, redis.DialConnectTimeout(d))
	}
	if d := cfg.Timeouts.Request; d > 0 {
		opts = append(opts, redis.DialReadTimeout(d), redis.DialWriteTimeout(d))
	}
	if pw := cfg.Credential("password"); pw != "" {
		opts = append(opts, redis.DialPassword(pw))
	}

	ca := cfg.Credential("tls_ca")
	if ca == "" && cfg.Security.CAPath != "" {
		pem, err := os.ReadFile(cfg.Security.CAPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "read redis CA")
		}
		ca = string(pem)
	}
	if ca != "" || strings.HasPrefix(redisURL, "rediss://") {
		tlsConfig := &tls.Config{InsecureSkipVerify: cfg.Security.TLSSkipVerify} //nolint:gosec
		if ca != "" {
			rootCAs, _ := x509.SystemCertPool()
			if rootCAs == nil {
				rootCAs = x509.NewCertPool()
			}
			if !rootCAs.AppendCertsFromPEM([]byte(ca)) {
				return nil, errors.New(errors.ErrorTypeConfig, "redis CA contains no PEM certificates")
			}
			tlsConfig.RootCAs = rootCAs
		}
		opts = append(opts, redis.DialUseTLS(true), redis.DialTLSConfig(tlsConfig))
	}
	return opts, nil
}

func urlDialer(redisURL string, opts []redis.DialOption) DialFunc {
	return func(ctx context.Context) (redis.Conn, error) {
		return redis.DialURLContext(ctx, redisURL, opts...)
	}
}

func newPool(dial DialFunc, idle time.Duration) *redis.Pool {
	if idle <= 0 {
		idle = 240 * time.Second
	}
	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: idle,
		DialContext: dial,
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// classify maps a redigo failure onto the typed error taxonomy
func classify(ctx context.Context, op string, err error) error {
	var rerr redis.Error
	var nerr net.Error
	switch {
	case ctx.Err() != nil || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(err, errors.ErrorTypeTimeout, op+" cancelled")
	case stderrors.Is(err, redis.ErrPoolExhausted):
		return errors.Wrap(err, errors.ErrorTypeRateLimit, op+": pool exhausted")
	case stderrors.As(err, &rerr):
		msg := string(rerr)
		switch {
		case strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "WRONGPASS"):
			return errors.Wrap(err, errors.ErrorTypeAuthentication, op)
		case strings.HasPrefix(msg, "NOPERM"):
			return errors.Wrap(err, errors.ErrorTypePermission, op)
		case strings.HasPrefix(msg, "NOGROUP"):
			return errors.Wrap(err, errors.ErrorTypeNotFound, op)
		}
		return errors.Wrap(err, errors.ErrorTypeQuery, op)
	case stderrors.As(err, &nerr) && nerr.Timeout():
		return errors.Wrap(err, errors.ErrorTypeTimeout, op)
	default:
		return errors.Wrap(err, errors.ErrorTypeConnection, fmt.Sprintf("%s: redis unavailable", op))
	}
}
