package queue

// OrderCreatedPayload 订单创建任务载荷
type OrderCreatedPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusChangedPayload 订单状态变更任务载荷
type OrderStatusChangedPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}
