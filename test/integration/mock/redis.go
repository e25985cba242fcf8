package mock

import (
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisMock *Redis

// Redis runs a miniredis server and exposes a client pointed at it.
type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

// NewRedis starts (once) the in-process redis server.
func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic("failed to start miniredis. err: " + err.Error())
		}

		client := redis.NewClient(&redis.Options{
			Addr: server.Addr(),
		})

		redisMock = &Redis{
			Server: server,
			Client: client,
		}
	})
	return redisMock
}

// Reset drops every key so each scenario starts with a cold cache.
func (r *Redis) Reset() {
	r.Server.FlushAll()
}
