package server

// Client is a line-oriented connection. Commands arrive one per line and
// replies are single JSON messages.
type Client interface {
	// ReadLine blocks until a complete non-empty line is received.
	ReadLine() (string, error)

	// WriteLine sends a plain text message.
	WriteLine(message string) error

	// WriteJSON sends v encoded as one JSON message.
	WriteJSON(v any) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
