package client

import (
	"net"
	"strconv"
	"time"
)

// Config carries explicit endpoint and timeout settings. The core never
// reads the process environment; env handling belongs to the callers.
type Config struct {
	Host string
	Port int

	DialTimeout time.Duration
	// WriteTimeout bounds command writes on every connection.
	WriteTimeout time.Duration
	// ReadTimeout bounds the response read of one-shot exchanges only.
	// Session reads block until data arrives, the peer closes, or the
	// caller's context carries a deadline.
	ReadTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         9000,
		DialTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
}

func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Host == "" {
		c.Host = def.Host
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = def.DialTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	return c
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
