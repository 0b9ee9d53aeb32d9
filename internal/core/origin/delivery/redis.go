package delivery

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	deliveryconfig "github.com/weisyn/originverifier/internal/config/delivery"
	originif "github.com/weisyn/originverifier/pkg/interfaces/origin"
	"github.com/weisyn/originverifier/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/originverifier/pkg/types"
)

// pubsubClient 发布订阅客户端
//
// 🎯 **职责**：隔离 go-redis，测试中以内存实现替换
type pubsubClient interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error, error)
	Close() error
}

// goRedisClient go-redis 客户端实现
type goRedisClient struct {
	client *redis.Client
}

var _ pubsubClient = (*goRedisClient)(nil)

func newGoRedisClient(opts *deliveryconfig.DeliveryOptions) (pubsubClient, error) {
	if opts.RedisAddr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &goRedisClient{client: client}, nil
}

func (c *goRedisClient) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.client.Publish(ctx, channel, payload).Err()
}

func (c *goRedisClient) Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error, error) {
	sub := c.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, err
	}
	out := make(chan []byte)
	go func() {
		defer close(out)
		for m := range sub.Channel() {
			select {
			case out <- []byte(m.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, sub.Close, nil
}

func (c *goRedisClient) Close() error {
	return c.client.Close()
}

// RedisChannel 基于 Redis 发布订阅的投递通道
type RedisChannel struct {
	localID types.CounterpartyID
	prefix  string
	client  pubsubClient
	logger  log.Logger
}

var _ originif.Transport = (*RedisChannel)(nil)

// NewRedisChannel 连接 Redis 并创建投递通道
func NewRedisChannel(opts *deliveryconfig.DeliveryOptions, logger log.Logger) (*RedisChannel, error) {
	client, err := newGoRedisClient(opts)
	if err != nil {
		return nil, err
	}
	return newRedisChannel(client, opts, logger), nil
}

func newRedisChannel(client pubsubClient, opts *deliveryconfig.DeliveryOptions, logger log.Logger) *RedisChannel {
	if logger == nil {
		logger = log.Nop()
	}
	return &RedisChannel{
		localID: types.CounterpartyID(opts.LocalID),
		prefix:  opts.ChannelPrefix,
		client:  client,
		logger:  logger,
	}
}

func (r *RedisChannel) channel(id types.CounterpartyID) string {
	return r.prefix + strconv.FormatUint(uint64(id), 10)
}

// Send 发布到对端频道
func (r *RedisChannel) Send(ctx context.Context, to types.CounterpartyID, msg *types.CrossChainMessage) error {
	data, err := encodeEnvelope(r.localID, msg)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel(to), data); err != nil {
		return fmt.Errorf("发布跨链消息失败: channel=%s: %w", r.channel(to), err)
	}
	return nil
}

// Listen 订阅本地频道直到 ctx 取消
func (r *RedisChannel) Listen(ctx context.Context, handler originif.InboundHandler) error {
	ch, unsubscribe, err := r.client.Subscribe(ctx, r.channel(r.localID))
	if err != nil {
		return fmt.Errorf("订阅跨链频道失败: %w", err)
	}
	defer func() {
		if err := unsubscribe(); err != nil {
			r.logger.Warnf("取消订阅跨链频道失败: %v", err)
		}
	}()

	r.logger.Infof("开始监听跨链频道: %s", r.channel(r.localID))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			from, msg, err := decodeEnvelope(data)
			if err != nil {
				r.logger.Warnf("丢弃无法解析的跨链消息: %v", err)
				continue
			}
			handler(ctx, from, msg)
		}
	}
}

// Close 关闭 Redis 连接
func (r *RedisChannel) Close() error {
	return r.client.Close()
}
