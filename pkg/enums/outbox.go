package enums

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	EventOrderCreated      OutboxEventType = "order.created"
	EventOrderAccepted     OutboxEventType = "order.accepted"
	EventOrderCompleted    OutboxEventType = "order.completed"
	EventOrderRejected     OutboxEventType = "order.rejected"
	EventOrderCancelled    OutboxEventType = "order.cancelled"
	EventRewardGranted     OutboxEventType = "reward.granted"
	EventRewardRevoked     OutboxEventType = "reward.revoked"
	EventDeliveryRequested OutboxEventType = "delivery.requested"
	EventReceiptQueued     OutboxEventType = "receipt.queued"
)

// OutboxAggregateType names the aggregate an outbox row belongs to.
type OutboxAggregateType string

const (
	AggregateOrder  OutboxAggregateType = "order"
	AggregateReward OutboxAggregateType = "reward"
)
