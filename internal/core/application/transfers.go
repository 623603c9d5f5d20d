package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/pkg/mathutil"
)

type movedFunds struct {
	asset  string
	amount uint64
}

// fundsCollector tracks the inbound transfers of a single operation so they
// can be returned to the payer if the operation aborts after funds already
// moved. Native asset legs are only accounted while depositing and settled
// in one pull by settleNative, which also refunds any attached excess.
type fundsCollector struct {
	transferor  ports.AssetTransferor
	nativeAsset string
	payer       string
	nativeValue uint64

	pulled         []movedFunds
	nativeRequired uint64
	nativeLeg      bool
}

func newFundsCollector(
	transferor ports.AssetTransferor,
	nativeAsset, payer string, nativeValue uint64,
) *fundsCollector {
	return &fundsCollector{
		transferor:  transferor,
		nativeAsset: nativeAsset,
		payer:       payer,
		nativeValue: nativeValue,
	}
}

// deposit pulls the given amount of asset from the payer. Native amounts are
// not pulled here but accumulated for settleNative, marking the operation as
// having a native leg even when the amount is zero. With verify set, a pull
// crediting less than requested fails with ErrBalanceMismatch.
func (c *fundsCollector) deposit(
	ctx context.Context, asset string, amount uint64, verify bool,
) error {
	if asset == c.nativeAsset {
		c.nativeLeg = true
		required, err := mathutil.AddUint64(c.nativeRequired, amount)
		if err != nil {
			return err
		}
		c.nativeRequired = required
		return nil
	}
	if amount == 0 {
		return nil
	}

	received, err := c.transferor.TransferIn(ctx, asset, c.payer, amount)
	if err != nil {
		return err
	}
	c.pulled = append(c.pulled, movedFunds{asset: asset, amount: received})
	if verify && received != amount {
		return domain.ErrBalanceMismatch
	}
	return nil
}

// settleNative reconciles the attached native value against the accumulated
// native requirement: it pulls the attached value in one transfer and refunds
// whatever the operation does not require.
func (c *fundsCollector) settleNative(ctx context.Context) error {
	if c.nativeValue == 0 {
		if c.nativeRequired > 0 {
			return domain.ErrInsufficientNativeAssetReceived
		}
		return nil
	}
	if !c.nativeLeg {
		return domain.ErrUnnecessaryNativeAssetReceived
	}
	if c.nativeValue < c.nativeRequired {
		return domain.ErrInsufficientNativeAssetReceived
	}

	received, err := c.transferor.TransferIn(
		ctx, c.nativeAsset, c.payer, c.nativeValue,
	)
	if err != nil {
		return err
	}
	c.pulled = append(c.pulled, movedFunds{asset: c.nativeAsset, amount: received})
	if received != c.nativeValue {
		return domain.ErrNativeAmountMismatch
	}

	if excess := c.nativeValue - c.nativeRequired; excess > 0 {
		return c.transferor.TransferOut(ctx, c.nativeAsset, c.payer, excess)
	}
	return nil
}

// refund returns every pulled amount to the payer. Called when the operation
// aborts after funds moved, so failures here are only logged.
func (c *fundsCollector) refund(ctx context.Context) {
	for _, f := range c.pulled {
		if err := c.transferor.TransferOut(
			ctx, f.asset, c.payer, f.amount,
		); err != nil {
			log.WithError(err).Warnf(
				"failed to refund %d of asset %s to %s", f.amount, f.asset, c.payer,
			)
		}
	}
	c.pulled = nil
}

// payOut transfers the given amount of asset to the account, logging
// failures. Used for the outbound leg settled after the state committed.
func payOut(
	ctx context.Context, transferor ports.AssetTransferor,
	asset, to string, amount uint64,
) {
	if amount == 0 {
		return
	}
	if err := transferor.TransferOut(ctx, asset, to, amount); err != nil {
		log.WithError(err).Warnf(
			"failed to pay out %d of asset %s to %s", amount, asset, to,
		)
	}
}
