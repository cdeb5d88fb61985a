package cache

import (
	"errors"

	"github.com/gomodule/redigo/redis"
)

// ErrMiss is returned when a key does not exist.
var ErrMiss = errors.New("cache miss")

func Get(key string, conn redis.Conn) ([]byte, error) {
	data, err := redis.Bytes(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return nil, ErrMiss
	}
	return data, err
}

func GetString(key string, conn redis.Conn) (string, error) {
	data, err := redis.String(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return "", ErrMiss
	}
	return data, err
}

// SetEx stores value under key for ttl. A zero ttl keeps the key forever.
func SetEx(key string, value interface{}, ttl int, conn redis.Conn) error {
	args := redis.Args{}.Add(key, value)
	if ttl > 0 {
		args = args.Add("EX", ttl)
	}
	reply, err := redis.String(conn.Do("SET", args...))
	if err != nil {
		return err
	}
	if reply != "OK" {
		return errors.New("unexpected SET reply " + reply)
	}
	return nil
}

func Del(conn redis.Conn, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := conn.Do("DEL", redis.Args{}.AddFlat(keys)...)
	return err
}
