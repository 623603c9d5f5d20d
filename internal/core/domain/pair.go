package domain

import "regexp"

var assetFormat = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidateAsset returns whether the given asset id is a well formed, non-null
// asset hash.
func ValidateAsset(asset string) error {
	if !assetFormat.MatchString(asset) {
		return ErrInvalidAsset
	}
	return nil
}

// SortTokens returns the two asset ids in canonical ascending order.
func SortTokens(tokenA, tokenB string) (string, string) {
	if tokenB < tokenA {
		return tokenB, tokenA
	}
	return tokenA, tokenB
}

// Pair defines a canonical two-asset market. Tokens are always stored in
// ascending order, whatever the order they were provided with at creation.
type Pair struct {
	// ID is the stable pair id, assigned incrementally starting from 1.
	ID uint64
	// Token0 is the lower asset id of the pair.
	Token0 string
	// Token1 is the higher asset id of the pair.
	Token1 string
}

// NewPair returns a new pair with the given id and the two assets sorted in
// canonical order.
func NewPair(id uint64, tokenA, tokenB string) (*Pair, error) {
	if err := ValidateAsset(tokenA); err != nil {
		return nil, err
	}
	if err := ValidateAsset(tokenB); err != nil {
		return nil, err
	}
	if tokenA == tokenB {
		return nil, ErrIdenticalAssets
	}

	token0, token1 := SortTokens(tokenA, tokenB)
	return &Pair{ID: id, Token0: token0, Token1: token1}, nil
}

// Matches returns whether the pair trades the given unordered asset set.
func (p *Pair) Matches(tokenA, tokenB string) bool {
	token0, token1 := SortTokens(tokenA, tokenB)
	return p.Token0 == token0 && p.Token1 == token1
}

// IndexOf returns the position of the given asset within the pair, -1 if the
// asset does not belong to it.
func (p *Pair) IndexOf(asset string) int {
	switch asset {
	case p.Token0:
		return 0
	case p.Token1:
		return 1
	default:
		return -1
	}
}
