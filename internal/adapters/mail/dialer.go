package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/net/proxy"
)

// errUnreachable marks failures to open the connection to the server.
var errUnreachable = errors.New("smtp server unreachable")

// newDialer returns a direct dialer, or one that tunnels through the proxy
// at addr when it is set.
func newDialer(addr string) (proxy.ContextDialer, error) {
	direct := &net.Dialer{}
	if addr == "" {
		return direct, nil
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse proxy address: %w", err)
	}
	if u.Scheme == "socks" {
		u.Scheme = "socks5"
	}

	d, err := proxy.FromURL(u, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy dialer: %w", err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("proxy dialer for %s does not support contexts", u.Scheme)
	}
	return cd, nil
}

// tlsDialFunc dials through d and performs the implicit TLS handshake.
// go-mail does not wrap custom dial funcs in TLS.
func tlsDialFunc(d proxy.ContextDialer, serverName string) gomail.DialContextFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errUnreachable, addr, err)
		}

		tlsConn := tls.Client(conn, &tls.Config{ServerName: serverName})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: tls handshake with %s: %v", errUnreachable, addr, err)
		}
		return tlsConn, nil
	}
}
