package domain

// EventType names a realtime notification pushed over the room bus.
type EventType string

const (
	EventNewOrder          EventType = "new_order"
	EventOrderStatusUpdate EventType = "order_status_update"
	EventOrderConfirmed    EventType = "order_confirmed"
	EventWaiterCall        EventType = "waiter_call_alert"
)

// ShopRoom is the private room a vendor dashboard joins for one shop.
func ShopRoom(shopID string) string {
	return "shop:" + shopID
}

// CustomerRoom is the private room a customer device joins.
func CustomerRoom(customerID string) string {
	return "customer:" + customerID
}
