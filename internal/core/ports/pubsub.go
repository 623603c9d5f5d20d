package ports

// Topics of the notifications published by the engine.
const (
	TopicPairCreated     = "pair.created"
	TopicStrategyCreated = "strategy.created"
	TopicStrategyUpdated = "strategy.updated"
	TopicStrategyDeleted = "strategy.deleted"
	TopicTradeExecuted   = "trade.executed"
	TopicFeeUpdated      = "fee.updated"
)

// Publisher fans out the engine's notifications. Publishing must never block
// the publishing operation.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}
