package application

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// FeeService exposes the fee administration surface: the default trade fee,
// per-pair overrides and withdrawal of the accumulated fee counters.
type FeeService struct {
	repoManager ports.RepoManager
	transferor  ports.AssetTransferor
	policy      ports.AccessPolicy
	publisher   ports.Publisher
	guard       *ReentrancyGuard
}

func NewFeeService(
	repoManager ports.RepoManager,
	transferor ports.AssetTransferor,
	policy ports.AccessPolicy,
	publisher ports.Publisher,
	guard *ReentrancyGuard,
) (*FeeService, error) {
	if repoManager == nil {
		return nil, errors.New("missing repo manager")
	}
	if transferor == nil {
		return nil, errors.New("missing asset transferor")
	}
	if policy == nil {
		return nil, errors.New("missing access policy")
	}
	if publisher == nil {
		return nil, errors.New("missing publisher")
	}
	if guard == nil {
		return nil, errors.New("missing reentrancy guard")
	}
	return &FeeService{
		repoManager: repoManager,
		transferor:  transferor,
		policy:      policy,
		publisher:   publisher,
		guard:       guard,
	}, nil
}

// SetTradeFee replaces the default ppm trade fee. Restricted to RoleAdmin.
func (s *FeeService) SetTradeFee(
	ctx context.Context, caller string, feePPM uint32,
) error {
	if err := s.guard.Enter(); err != nil {
		return err
	}
	defer s.guard.Leave()

	if !s.policy.HasRole(ctx, caller, ports.RoleAdmin) {
		return domain.ErrAccessDenied
	}
	if err := domain.ValidateFeePPM(feePPM); err != nil {
		return err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.FeeRepository().UpdateTradeFeePPM(ctx, feePPM)
		},
	); err != nil {
		return err
	}

	s.publisher.Publish(ports.TopicFeeUpdated, FeeUpdatedEvent{FeePPM: feePPM})
	log.Infof("updated trade fee to %d ppm", feePPM)
	return nil
}

// TradeFee returns the default ppm trade fee.
func (s *FeeService) TradeFee(ctx context.Context) (uint32, error) {
	return s.repoManager.FeeRepository().GetTradeFeePPM(ctx)
}

// SetPairTradeFee sets the fee override of the pair trading the given
// assets. A zero rate clears the override, falling back to the default fee.
// Restricted to RoleAdmin.
func (s *FeeService) SetPairTradeFee(
	ctx context.Context, caller, tokenA, tokenB string, feePPM uint32,
) error {
	if err := s.guard.Enter(); err != nil {
		return err
	}
	defer s.guard.Leave()

	if !s.policy.HasRole(ctx, caller, ports.RoleAdmin) {
		return domain.ErrAccessDenied
	}
	if err := domain.ValidateFeePPM(feePPM); err != nil {
		return err
	}
	token0, token1, err := canonicalTokens(tokenA, tokenB)
	if err != nil {
		return err
	}

	pair, err := s.repoManager.PairRepository().GetPair(ctx, token0, token1)
	if err != nil {
		return err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.FeeRepository().UpdatePairFeePPM(
				ctx, pair.ID, feePPM,
			)
		},
	); err != nil {
		return err
	}

	s.publisher.Publish(ports.TopicFeeUpdated, FeeUpdatedEvent{
		PairID: pair.ID,
		FeePPM: feePPM,
	})
	log.Infof("updated trade fee of pair %d to %d ppm", pair.ID, feePPM)
	return nil
}

// PairTradeFee returns the fee override of the pair trading the given assets
// and whether one is set.
func (s *FeeService) PairTradeFee(
	ctx context.Context, tokenA, tokenB string,
) (uint32, bool, error) {
	token0, token1, err := canonicalTokens(tokenA, tokenB)
	if err != nil {
		return 0, false, err
	}
	pair, err := s.repoManager.PairRepository().GetPair(ctx, token0, token1)
	if err != nil {
		return 0, false, err
	}
	return s.repoManager.FeeRepository().GetPairFeePPM(ctx, pair.ID)
}

// AccumulatedFees returns all non-zero accumulated fee counters indexed by
// asset.
func (s *FeeService) AccumulatedFees(
	ctx context.Context,
) (map[string]uint64, error) {
	return s.repoManager.FeeRepository().GetAllAccumulatedFees(ctx)
}

// WithdrawFees pays accumulated fees out to the given account. Each entry's
// amount is clamped to the asset's available counter, and the paid amounts
// are returned per asset. Restricted to RoleFeeManager.
func (s *FeeService) WithdrawFees(
	ctx context.Context, caller, to string, withdrawals []FeeWithdrawal,
) (map[string]uint64, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Leave()

	if !s.policy.HasRole(ctx, caller, ports.RoleFeeManager) {
		return nil, domain.ErrAccessDenied
	}
	if to == "" {
		return nil, ErrInvalidAccount
	}
	if len(withdrawals) == 0 {
		return nil, ErrMissingWithdrawals
	}
	seen := make(map[string]struct{})
	for _, w := range withdrawals {
		if err := domain.ValidateAsset(w.Asset); err != nil {
			return nil, err
		}
		if _, ok := seen[w.Asset]; ok {
			return nil, domain.ErrDuplicateAsset
		}
		seen[w.Asset] = struct{}{}
		if w.Amount == 0 {
			return nil, domain.ErrZeroValue
		}
	}

	paid := make(map[string]uint64)
	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			for _, w := range withdrawals {
				amount := w.Amount
				if err := s.repoManager.FeeRepository().UpdateAccumulatedFees(
					ctx, w.Asset, func(available uint64) (uint64, error) {
						if amount > available {
							amount = available
						}
						return available - amount, nil
					},
				); err != nil {
					return nil, err
				}
				paid[w.Asset] = amount
			}
			return nil, nil
		},
	); err != nil {
		return nil, err
	}

	for asset, amount := range paid {
		payOut(ctx, s.transferor, asset, to, amount)
	}
	log.Infof("withdrew accumulated fees of %d assets to %s", len(paid), to)

	return paid, nil
}
