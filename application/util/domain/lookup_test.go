package domain

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LookuperTestSuite struct {
	suite.Suite

	initial  map[string][]netip.Addr
	lookuper Lookuper
}

func (s *LookuperTestSuite) SetupTest() {
	s.initial = map[string][]netip.Addr{
		"localhost": {
			netip.MustParseAddr("::1"),
			netip.MustParseAddr("127.0.0.1"),
		},
		"v4only.test": {netip.MustParseAddr("10.0.0.1")},
	}
}

func (s *LookuperTestSuite) TestLookupFamilies() {
	addrs, err := s.lookuper.LookupIP(context.Background(), IPv6, "localhost")
	s.Require().NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("::1")}, addrs)

	addrs, err = s.lookuper.LookupIP(context.Background(), IPv4, "localhost")
	s.Require().NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("127.0.0.1")}, addrs)
}

func (s *LookuperTestSuite) TestLookupMissingFamily() {
	addrs, err := s.lookuper.LookupIP(context.Background(), IPv6, "v4only.test")
	s.ErrorIs(err, ErrDomainNotFound)
	s.Empty(addrs)

	_, err = s.lookuper.LookupIP(context.Background(), IPv4, "non-existent.test")
	s.ErrorIs(err, ErrDomainNotFound)
}

type mapLookuperTestSuite struct{ LookuperTestSuite }

func TestMapLookuperTestSuite(t *testing.T) {
	suite.Run(t, new(mapLookuperTestSuite))
}

func (s *mapLookuperTestSuite) SetupTest() {
	s.LookuperTestSuite.SetupTest()
	s.lookuper = NewMapLookuper(s.initial)
}

func (s *mapLookuperTestSuite) TestLookupInitCopied() {
	s.initial["v4only.test"] = []netip.Addr{netip.MustParseAddr("10.9.9.9")}

	addrs, err := s.lookuper.LookupIP(context.Background(), IPv4, "v4only.test")
	s.NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("10.0.0.1")}, addrs)
}

func (s *mapLookuperTestSuite) TestSetAndDel() {
	l := s.lookuper.(*mapLookuper)
	l.Set("new.test", []netip.Addr{netip.MustParseAddr("2001:db8::1")})

	addrs, err := l.LookupIP(context.Background(), IPv6, "new.test")
	s.NoError(err)
	s.Len(addrs, 1)

	l.Del("new.test")
	_, err = l.LookupIP(context.Background(), IPv6, "new.test")
	s.ErrorIs(err, ErrDomainNotFound)
}

func (s *mapLookuperTestSuite) TestFamilyMatchesMappedAddr() {
	s.True(IPv4.Matches(netip.MustParseAddr("::ffff:10.0.0.1")))
	s.False(IPv6.Matches(netip.MustParseAddr("::ffff:10.0.0.1")))
}
