package application

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// PairService exposes the pair registry: creation of new tradeable pairs and
// lookups by tokens or by id.
type PairService struct {
	repoManager ports.RepoManager
	policy      ports.AccessPolicy
	publisher   ports.Publisher
}

func NewPairService(
	repoManager ports.RepoManager,
	policy ports.AccessPolicy,
	publisher ports.Publisher,
) (*PairService, error) {
	if repoManager == nil {
		return nil, errors.New("missing repo manager")
	}
	if policy == nil {
		return nil, errors.New("missing access policy")
	}
	if publisher == nil {
		return nil, errors.New("missing publisher")
	}
	return &PairService{
		repoManager: repoManager,
		policy:      policy,
		publisher:   publisher,
	}, nil
}

// CreatePair registers a new pair for the given assets, in any order, and
// returns it with its assigned id and its tokens in canonical order.
func (s *PairService) CreatePair(
	ctx context.Context, tokenA, tokenB string,
) (*PairInfo, error) {
	if s.policy.IsPaused(ctx) {
		return nil, ErrEnginePaused
	}
	token0, token1, err := canonicalTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.PairRepository().AddPair(ctx, token0, token1)
		},
	)
	if err != nil {
		return nil, err
	}
	pair := res.(*domain.Pair)

	s.publisher.Publish(ports.TopicPairCreated, PairCreatedEvent{
		PairID: pair.ID,
		Token0: pair.Token0,
		Token1: pair.Token1,
	})
	log.Infof("created pair %d", pair.ID)

	return pairInfo(pair), nil
}

// Pair returns the pair trading the given assets, in either order.
func (s *PairService) Pair(
	ctx context.Context, tokenA, tokenB string,
) (*PairInfo, error) {
	token0, token1, err := canonicalTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	pair, err := s.repoManager.PairRepository().GetPair(ctx, token0, token1)
	if err != nil {
		return nil, err
	}
	return pairInfo(pair), nil
}

// PairByID returns the pair with the given id.
func (s *PairService) PairByID(
	ctx context.Context, id uint64,
) (*PairInfo, error) {
	pair, err := s.repoManager.PairRepository().GetPairByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return pairInfo(pair), nil
}

// Pairs returns all registered pairs in creation order.
func (s *PairService) Pairs(ctx context.Context) ([]PairInfo, error) {
	pairs, err := s.repoManager.PairRepository().GetAllPairs(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]PairInfo, 0, len(pairs))
	for i := range pairs {
		list = append(list, *pairInfo(&pairs[i]))
	}
	return list, nil
}

func pairInfo(pair *domain.Pair) *PairInfo {
	return &PairInfo{
		ID:     pair.ID,
		Token0: pair.Token0,
		Token1: pair.Token1,
	}
}

// canonicalTokens validates both assets and returns them sorted.
func canonicalTokens(tokenA, tokenB string) (string, string, error) {
	if err := domain.ValidateAsset(tokenA); err != nil {
		return "", "", err
	}
	if err := domain.ValidateAsset(tokenB); err != nil {
		return "", "", err
	}
	if tokenA == tokenB {
		return "", "", domain.ErrIdenticalAssets
	}
	token0, token1 := domain.SortTokens(tokenA, tokenB)
	return token0, token1, nil
}
