package pubsub

import "freshharvest/internal/domain/service"

// eventAttributes are the message attributes or headers sent with every event,
// so consumers can filter without decoding the payload.
func eventAttributes(event *service.CatalogEvent) map[string]string {
	attributes := map[string]string{
		"event_id":   event.ID,
		"event_type": string(event.Type),
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}
	if event.FarmerID != "" {
		attributes["farmer_id"] = event.FarmerID
	}

	return attributes
}
