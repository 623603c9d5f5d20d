package ports

import "context"

// AssetTransferor moves asset amounts between the engine and external
// accounts. Implementations may invoke externally-controlled code, so callers
// must never rely on it behaving cooperatively: transfer-in reports the
// amount actually credited, which can differ from the requested one for
// fee-on-transfer assets.
type AssetTransferor interface {
	// TransferIn pulls the given amount of asset from the account into the
	// engine and returns the amount actually credited.
	TransferIn(
		ctx context.Context, asset, from string, amount uint64,
	) (uint64, error)
	// TransferOut pays the given amount of asset out of the engine to the
	// account.
	TransferOut(ctx context.Context, asset, to string, amount uint64) error
}
