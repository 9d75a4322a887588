package pipe

import (
	"context"
	"io"
	"testing"

	"http-engine/transport"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

type DialerTestSuite struct {
	suite.Suite

	dialer *Dialer
}

func TestDialerTestSuite(t *testing.T) {
	suite.Run(t, new(DialerTestSuite))
}

func (s *DialerTestSuite) SetupTest() {
	s.dialer = NewDialer(clock.New())
}

func (s *DialerTestSuite) TearDownTest() {
	s.dialer.Wait()
	goleak.VerifyNone(s.T())
}

func (s *DialerTestSuite) TestEcho() {
	s.dialer.Handle("example.com", 80, func(conn transport.Conn) {
		buf := make([]byte, 5)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		_, _ = conn.Write(buf)
	})

	conn, err := s.dialer.Dial(context.Background(), "example.com", 80)
	s.Require().NoError(err)
	defer conn.Close()

	n, err := conn.Write([]byte("hello"))
	s.Require().NoError(err)
	s.Equal(5, n)

	buf := make([]byte, 5)
	_, err = io.ReadFull(conn, buf)
	s.Require().NoError(err)
	s.Equal("hello", string(buf))

	// Handler returned, so its end is closed.
	_, err = conn.Read(buf)
	s.ErrorIs(err, transport.ErrConnClosed)

	s.Equal("example.com:80", conn.RemoteAddr().String())
	s.Equal("pipe", conn.LocalAddr().Network())
}

func (s *DialerTestSuite) TestRefused() {
	_, err := s.dialer.Dial(context.Background(), "::1", 8080)
	s.ErrorIs(err, transport.ErrConnRefused)
	s.Equal([]string{"[::1]:8080"}, s.dialer.Dialed())
}

func (s *DialerTestSuite) TestCanceled() {
	s.dialer.Handle("example.com", 80, func(conn transport.Conn) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.dialer.Dial(ctx, "example.com", 80)
	s.ErrorIs(err, context.Canceled)
}
