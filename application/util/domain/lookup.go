package domain

import (
	"context"
	"maps"
	"net"
	"net/netip"
	"slices"

	"github.com/pkg/errors"
)

var ErrDomainNotFound = errors.New("domain not found")

type Family string

const (
	IPv6 Family = "ip6"
	IPv4 Family = "ip4"
)

// Matches reports whether addr belongs to f.
func (f Family) Matches(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch f {
	case IPv6:
		return addr.Is6()
	case IPv4:
		return addr.Is4()
	}
	return false
}

type Lookuper interface {
	// LookupIP returns the addresses of domain in the given family.
	// It fails with ErrDomainNotFound when there are none.
	LookupIP(ctx context.Context, family Family, domain string) (addrs []netip.Addr, err error)
}

type resolverLookuper struct {
	resolver *net.Resolver
}

var _ Lookuper = (*resolverLookuper)(nil)

// NewResolverLookuper looks names up through resolver, or through
// net.DefaultResolver when it is nil.
func NewResolverLookuper(resolver *net.Resolver) *resolverLookuper {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &resolverLookuper{resolver: resolver}
}

func (l *resolverLookuper) LookupIP(ctx context.Context, family Family, domain string) ([]netip.Addr, error) {
	addrs, err := l.resolver.LookupNetIP(ctx, string(family), domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, errors.Wrapf(ErrDomainNotFound, "%s %s", family, domain)
		}
		return nil, errors.Wrapf(err, "looking up %s", domain)
	}

	addrs = slices.DeleteFunc(addrs, func(addr netip.Addr) bool { return !family.Matches(addr) })
	if len(addrs) == 0 {
		return nil, errors.Wrapf(ErrDomainNotFound, "%s %s", family, domain)
	}
	return addrs, nil
}

type mapLookuper struct {
	set map[string][]netip.Addr
}

var _ Lookuper = (*mapLookuper)(nil)

func NewMapLookuper(set map[string][]netip.Addr) *mapLookuper {
	if set == nil {
		set = make(map[string][]netip.Addr)
	}
	return &mapLookuper{set: maps.Clone(set)}
}

func (m *mapLookuper) LookupIP(ctx context.Context, family Family, domain string) ([]netip.Addr, error) {
	var addrs []netip.Addr
	for _, addr := range m.set[domain] {
		if family.Matches(addr) {
			addrs = append(addrs, addr)
		}
	}
	if len(addrs) == 0 {
		return nil, errors.Wrapf(ErrDomainNotFound, "%s %s", family, domain)
	}
	return addrs, nil
}

func (m *mapLookuper) Set(domain string, addrs []netip.Addr) {
	if len(addrs) == 0 {
		return
	}
	m.set[domain] = slices.Clone(addrs)
}

func (m *mapLookuper) Del(domain string) { delete(m.set, domain) }
