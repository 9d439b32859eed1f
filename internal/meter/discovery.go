package meter

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
)

const (
	discoveryService = "_http._tcp"
	discoveryDomain  = "local."

	defaultDiscoveryTimeout = 3 * time.Second
)

// Discover browses the local network for a relay advertisement and returns
// its host:port address. It resolves as soon as the first advertisement
// arrives or when the window elapses, whichever is first. Finding nothing is
// not an error: the address comes back empty.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = defaultDiscoveryTimeout
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", apperrors.NewDeviceUnreachable(err, "starting mDNS resolver")
	}

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(browseCtx, discoveryService, discoveryDomain, entries); err != nil {
		return "", apperrors.NewDeviceUnreachable(err, "browsing for relay device")
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", nil
			}
			if addr := entryAddress(entry); addr != "" {
				return addr, nil
			}
		case <-browseCtx.Done():
			return "", nil
		}
	}
}

func entryAddress(entry *zeroconf.ServiceEntry) string {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", entry.AddrIPv4[0], entry.Port)
}
