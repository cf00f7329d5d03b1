// Package serial provides a serial port, which provides the io.ReadWriter interface,
// that provides the connection between the at or gsm packages and the physical modem.
package serial

import (
	"github.com/tarm/serial"
)

// Config is the configuration of a serial port.
type Config struct {
	port string
	baud int
}

// Option alters the default Config used by New.
type Option func(*Config)

// WithPort sets the path to the serial device.
func WithPort(port string) Option {
	return func(c *Config) {
		c.port = port
	}
}

// WithBaud sets the baud rate of the serial connection.
func WithBaud(baud int) Option {
	return func(c *Config) {
		c.baud = baud
	}
}

// New opens a serial port, using defaultConfig (platform specific) as the
// baseline, overridden by any options provided.
func New(options ...Option) (*serial.Port, error) {
	cfg := defaultConfig
	for _, option := range options {
		option(&cfg)
	}
	config := &serial.Config{Name: cfg.port, Baud: cfg.baud}
	return serial.OpenPort(config)
}
