package tcp

import (
	"net"
	"testing"

	"http-engine/transport/test"

	"github.com/stretchr/testify/suite"
)

type ConnTestSuite struct {
	test.ConnTestSuite
}

func TestConnTestSuite(t *testing.T) {
	suite.Run(t, new(ConnTestSuite))
}

func (s *ConnTestSuite) SetupTest() {
	s.ConnTestSuite.SetupTest()

	c1, c2 := net.Pipe()
	s.C1, s.C2 = NewConn(c1), NewConn(c2)
}
