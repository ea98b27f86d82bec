package probe

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate is the standard baud rate for the sampler board.
const DefaultBaudRate = 115200

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial acquires raw counts from a sampler board over a serial link using a
// poll/response protocol: each ReadRaw writes "R<channel>\n" and blocks until
// the board answers with one decimal count terminated by a newline.
type Serial struct {
	port     string
	baudRate int

	mu        sync.Mutex
	conn      serial.Port
	reader    *bufio.Reader
	connected bool
}

// NewSerial creates a serial source for the given port. A baud rate of 0
// selects DefaultBaudRate. The port is not opened until Configure.
func NewSerial(port string, baudRate int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	return &Serial{
		port:     port,
		baudRate: baudRate,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Configure opens the serial port.
func (s *Serial) Configure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: s.baudRate,
	}

	conn, err := serial.Open(s.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.connected = true

	return nil
}

// ReadRaw polls the board for one conversion on the given channel and blocks
// until the response line arrives. There is no timeout: the board is assumed
// to always eventually answer, matching the acquisition contract.
func (s *Serial) ReadRaw(channel uint32) (uint16, error) {
	if channel > MaxChannel {
		return 0, fmt.Errorf("%w: %d", ErrChannelRange, channel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return 0, ErrNotConnected
	}

	cmd := fmt.Sprintf("R%d\n", channel)
	if _, err := s.conn.Write([]byte(cmd)); err != nil {
		return 0, fmt.Errorf("failed to poll channel %d: %w", channel, err)
	}

	line, err := s.reader.ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("failed to read conversion result: %w", err)
	}

	return parseCount(line)
}

// Close closes the serial port. Closing an unopened source is a no-op.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	s.connected = false
	s.reader = nil

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}

	return nil
}

// parseCount parses one response line into a raw count, rejecting values at
// or above full scale.
func parseCount(line string) (uint16, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, fmt.Errorf("empty conversion response")
	}

	v, err := strconv.ParseUint(line, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid conversion response %q: %w", line, err)
	}
	if v >= FullScale {
		return 0, fmt.Errorf("conversion result %d exceeds full scale", v)
	}

	return uint16(v), nil
}
