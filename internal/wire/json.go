package wire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeJSON encodes m into its human-readable JSON mirror. Prices are
// formatted as 4-decimal strings, timestamps as int64 nanos.
func EncodeJSON(m *Message) ([]byte, error) {
	obj := msgToMap(m)
	if obj == nil {
		return nil, fmt.Errorf("unsupported message type: %c", m.Type)
	}
	return json.Marshal(obj)
}

func msgToMap(m *Message) map[string]any {
	switch m.Type {
	case MsgSystemEvent:
		return map[string]any{
			"type":        "system_event",
			"timestamp":   m.Timestamp,
			"stockLocate": m.StockLocate,
			"eventCode":   string([]byte{m.EventCode}),
		}

	case MsgStockDirectory:
		return map[string]any{
			"type":        "stock_directory",
			"timestamp":   m.Timestamp,
			"stockLocate": m.StockLocate,
			"symbol":      m.Symbol,
			"label":       strings.TrimSpace(m.Label),
		}

	case MsgTrade:
		return map[string]any{
			"type":        "trade",
			"timestamp":   m.Timestamp,
			"stockLocate": m.StockLocate,
			"symbol":      m.Symbol,
			"side":        m.Side,
			"qty":         formatPrice(m.Qty),
			"price":       formatPrice(m.Price),
			"orderId":     m.OrderID,
		}
	}
	return nil
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.4f", price)
}
