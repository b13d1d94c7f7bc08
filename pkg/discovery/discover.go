package discovery

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// Discover runs network and serial discovery concurrently. A nil config
// disables that strategy. Network devices come first in the result.
//
// If a strategy fails to start, its error is returned together with
// whatever the other strategy found.
func Discover(ctx context.Context, codec *wire.Codec, netCfg *NetworkConfig, serialCfg *SerialConfig) (*Result, error) {
	var (
		g         errgroup.Group
		netRes    *Result
		serialRes *Result
	)

	if netCfg != nil {
		g.Go(func() error {
			var err error
			netRes, err = DiscoverNetwork(ctx, codec, *netCfg)
			return err
		})
	}
	if serialCfg != nil {
		g.Go(func() error {
			var err error
			serialRes, err = DiscoverSerial(ctx, codec, *serialCfg)
			return err
		})
	}

	err := g.Wait()

	result := &Result{}
	result.merge(netRes)
	result.merge(serialRes)
	return result, err
}
