package domain

import (
	"errors"

	"github.com/curvex-network/curvex-daemon/pkg/curvemaking"
)

var (
	// ErrInvalidAsset is thrown when an asset id is null or malformed
	ErrInvalidAsset = errors.New("asset is not valid")
	// ErrIdenticalAssets is thrown when the two assets of a pair are the same
	ErrIdenticalAssets = errors.New("assets must be distinct")
	// ErrDuplicateAsset is thrown when a batch references the same asset twice
	ErrDuplicateAsset = errors.New("duplicated asset in batch")
	// ErrInvalidFee is thrown when a fee rate is not lower than 1000000 ppm
	ErrInvalidFee = errors.New("fee must be expressed in ppm and be lower than 1000000")
	// ErrInvalidIndices is thrown when a pagination range has start > end
	ErrInvalidIndices = errors.New("start index must not be greater than end index")
	// ErrZeroValue is thrown when an amount that must be positive is zero
	ErrZeroValue = errors.New("amount must not be zero")

	// ErrPairAlreadyExists is thrown when creating a pair for an already
	// registered unordered asset set
	ErrPairAlreadyExists = errors.New("pair already exists")
	// ErrPairDoesNotExist is thrown when looking up an unregistered pair
	ErrPairDoesNotExist = errors.New("pair does not exist")
	// ErrStrategyDoesNotExist is thrown when looking up an unknown strategy id
	ErrStrategyDoesNotExist = errors.New("strategy does not exist")
	// ErrOutDated is thrown when updating a strategy whose stored orders
	// diverged from the caller's view
	ErrOutDated = errors.New("strategy orders diverged from the provided ones")
	// ErrOrderDisabled is thrown when trading against an order with no curve
	ErrOrderDisabled = errors.New("order is disabled")
	// ErrInsufficientCapacity is thrown when an order's capacity is lower
	// than its liquidity
	ErrInsufficientCapacity = errors.New("order capacity must not be lower than its liquidity")
	// ErrInvalidRate is thrown when a curve parameter equals the reserved
	// invalid-rate sentinel
	ErrInvalidRate = errors.New("curve rate parameter is not valid")
	// ErrInsufficientLiquidity is thrown when a trade consumes more than the
	// order's available liquidity
	ErrInsufficientLiquidity = curvemaking.ErrInsufficientLiquidity

	// ErrAccessDenied is thrown when the caller lacks the required permission
	ErrAccessDenied = errors.New("access denied")

	// ErrBalanceMismatch is thrown when the amount received by a transfer
	// differs from the declared one
	ErrBalanceMismatch = errors.New("declared and received amounts do not match")
	// ErrUnnecessaryNativeAssetReceived is thrown when native value is
	// attached to a call that has no native asset leg
	ErrUnnecessaryNativeAssetReceived = errors.New("unnecessary native asset received")
	// ErrInsufficientNativeAssetReceived is thrown when the attached native
	// value does not cover the required native amount
	ErrInsufficientNativeAssetReceived = errors.New("insufficient native asset received")
	// ErrNativeAmountMismatch is thrown when native value accounting does not
	// balance at the end of an operation
	ErrNativeAmountMismatch = errors.New("native asset amount mismatch")

	// ErrDeadlineExpired is thrown when a trade is submitted past its deadline
	ErrDeadlineExpired = errors.New("deadline expired")
	// ErrInvalidTradeActionStrategyId is thrown when a trade action references
	// a strategy that does not belong to the traded pair
	ErrInvalidTradeActionStrategyId = errors.New("trade action references an invalid strategy id")
	// ErrInvalidActionsLength is thrown when a trade carries no actions
	ErrInvalidActionsLength = errors.New("trade must carry at least one action")
	// ErrGreaterThanMaxInput is thrown when the required source amount exceeds
	// the caller's bound
	ErrGreaterThanMaxInput = errors.New("required source amount is greater than max input")
	// ErrLowerThanMinReturn is thrown when the delivered target amount is
	// below the caller's bound
	ErrLowerThanMinReturn = errors.New("delivered target amount is lower than min return")
)
