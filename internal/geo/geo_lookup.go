package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const originKeyPrefix = "geo:origin:"

var ErrInvalidIP = errors.New("geo: invalid ip address")

// Origin is the network origin captured with clock and login actions.
type Origin struct {
	IP       string `json:"ip"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

func OriginKey(ip string) string {
	return originKeyPrefix + ip
}

//go:generate mockgen -source=geo_lookup.go -destination=mock/geo_lookup_mock.go -package=mock
type Resolver interface {
	Resolve(ctx context.Context, ip string) (*Origin, error)
}

// ipapi.co compatible payload
type lookupResponse struct {
	IP          string `json:"ip"`
	City        string `json:"city"`
	CountryName string `json:"country_name"`
	Timezone    string `json:"timezone"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

type httpResolver struct {
	baseURL string
	client  *http.Client
	rdb     *redis.Client
	ttl     time.Duration
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewResolver(baseURL string, timeout, cacheTTL time.Duration, rdb *redis.Client, logger ...*zap.Logger) Resolver {
	l := zap.L().Named("geo.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("geo.resolver")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &httpResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		rdb:     rdb,
		ttl:     cacheTTL,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (r *httpResolver) Resolve(ctx context.Context, ip string) (*Origin, error) {
	ip = strings.TrimSpace(ip)
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, ErrInvalidIP
	}
	if !isPublic(parsed) {
		return &Origin{IP: ip}, nil
	}

	key := OriginKey(ip)
	if r.rdb != nil {
		if cached, err := r.rdb.Get(ctx, key).Result(); err == nil {
			var o Origin
			if json.Unmarshal([]byte(cached), &o) == nil {
				return &o, nil
			}
		}
	}

	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		o, err := r.fetch(ctx, ip)
		if err != nil {
			return nil, err
		}

		if r.rdb != nil && r.ttl > 0 {
			if data, err := json.Marshal(o); err == nil {
				if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
					r.logger.Warn("cache geo origin failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return o, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Origin), nil
}

func (r *httpResolver) fetch(ctx context.Context, ip string) (*Origin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", r.baseURL, ip), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup: unexpected status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return nil, fmt.Errorf("geo lookup: decode: %w", err)
	}
	if body.Error {
		return nil, fmt.Errorf("geo lookup: %s", body.Reason)
	}

	o := &Origin{
		IP:       body.IP,
		City:     body.City,
		Country:  body.CountryName,
		Timezone: body.Timezone,
	}
	if o.IP == "" {
		o.IP = ip
	}
	return o, nil
}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast())
}

// Lookup resolves the origin for ip within timeout. Any failure yields nil;
// callers record the action without origin metadata rather than block it.
func Lookup(ctx context.Context, resolver Resolver, ip string, timeout time.Duration, logger *zap.Logger) *Origin {
	if resolver == nil || ip == "" {
		return nil
	}
	if logger == nil {
		logger = zap.L().Named("geo.lookup")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	o, err := resolver.Resolve(ctx, ip)
	if err != nil {
		logger.Warn("geo origin unavailable", zap.String("ip", ip), zap.Error(err))
		return nil
	}
	return o
}
