package transport

// Addr names one end of a [Conn].
// [net.Addr] satisfies it.
type Addr interface {
	Network() string
	String() string
}
