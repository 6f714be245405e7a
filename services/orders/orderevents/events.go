package orderevents

const (
	TopicName                 = "order"
	orderCreatedName          = TopicName + ".created"
	orderCancelledName        = TopicName + ".cancelled"
	orderPaymentCompletedName = TopicName + ".paymentCompleted"
)

type OrderCreated struct {
	OrderUID string
}

func (e OrderCreated) GetEventTypeName() string {
	return orderCreatedName
}

func (e OrderCreated) GetAggregateName() string {
	return e.OrderUID
}

type OrderCancelled struct {
	OrderUID string
}

func (e OrderCancelled) GetEventTypeName() string {
	return orderCancelledName
}

func (e OrderCancelled) GetAggregateName() string {
	return e.OrderUID
}

type OrderPaymentCompleted struct {
	OrderUID string
}

func (e OrderPaymentCompleted) GetEventTypeName() string {
	return orderPaymentCompletedName
}

func (e OrderPaymentCompleted) GetAggregateName() string {
	return e.OrderUID
}
