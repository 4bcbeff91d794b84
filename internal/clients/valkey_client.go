package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

const (
	VALKEY_SENTIMENT_KEY_PREFIX = "sentiment:score:"
	VALKEY_SCORE_TTL_SECONDS    = 86400
)

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		client, err := newValkeyClient()
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")

		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func newValkeyClient() (valkey.Client, error) {
	valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress: []string{
			valkeyAddr,
		},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	c := client.Do(ctx, client.B().Ping().Build())
	if c.Error() != nil {
		client.Close()
		return nil, c.Error()
	}

	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.Client.Close()

	client, err := newValkeyClient()
	if err != nil {
		panic(fmt.Errorf("[ValkeyClient] failed to recreate Valkey: %w", err))
	}

	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
	vc.Client = client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initilialized")
	}
	return valkeyInstance
}

// GetCachedScore looks up a previously analyzed score by content id.
func (vc *ValkeyClient) GetCachedScore(ctx context.Context, contentID string) (float64, bool) {
	key := VALKEY_SENTIMENT_KEY_PREFIX + contentID
	res := vc.Client.Do(ctx, vc.Client.B().Get().Key(key).Build())

	if err := res.Error(); err != nil {
		// a Nil reply is just a miss, not a failure
		if !valkey.IsValkeyNil(err) && isConnectionError(err) {
			vc.recreateClient()
		}
		return 0, false
	}

	raw, err := res.ToString()
	if err != nil {
		return 0, false
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("[ValkeyClient] Cached score is not a number",
			slog.String("key", key),
			slog.String("value", raw))
		return 0, false
	}

	return score, true
}

// CacheScore stores a score under the content id with a 24h TTL.
func (vc *ValkeyClient) CacheScore(ctx context.Context, contentID string, score float64) error {
	key := VALKEY_SENTIMENT_KEY_PREFIX + contentID
	value := strconv.FormatFloat(score, 'f', -1, 64)

	res := vc.DoWithRetry(ctx,
		vc.Client.B().Set().Key(key).Value(value).ExSeconds(VALKEY_SCORE_TTL_SECONDS).Build(), 3)
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return err
	}

	slog.Debug("[ValkeyClient] Cached sentiment score",
		slog.String("key", key))
	return nil
}

// Ping reports whether valkey is reachable. Used by the health monitors.
func (vc *ValkeyClient) Ping(ctx context.Context) bool {
	res := vc.Client.Do(ctx, vc.Client.B().Ping().Build())
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return false
	}
	return true
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
