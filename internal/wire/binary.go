package wire

import "encoding/binary"

// EncodeBinary encodes m into its ITCH-style binary frame, including the
// 2-byte big-endian length prefix. Returns nil for an unknown type.
func EncodeBinary(m *Message) []byte {
	var body []byte

	switch m.Type {
	case MsgSystemEvent:
		body = encodeSystemEvent(m)
	case MsgStockDirectory:
		body = encodeStockDirectory(m)
	case MsgTrade:
		body = encodeTrade(m)
	default:
		return nil
	}

	frame := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(frame[0:2], uint16(len(body)))
	copy(frame[2:], body)
	return frame
}

func putTimestamp(buf []byte, nanos int64) {
	buf[0] = byte(nanos >> 40)
	buf[1] = byte(nanos >> 32)
	buf[2] = byte(nanos >> 24)
	buf[3] = byte(nanos >> 16)
	buf[4] = byte(nanos >> 8)
	buf[5] = byte(nanos)
}

// System Event Message (13 bytes)
// Type(1) + StockLocate(2) + TrackingNum(2) + Timestamp(6) + EventCode(1) + Reserved(1)
func encodeSystemEvent(m *Message) []byte {
	buf := make([]byte, 13)
	buf[0] = byte(m.Type)
	binary.BigEndian.PutUint16(buf[1:3], m.StockLocate)
	binary.BigEndian.PutUint16(buf[3:5], m.TrackingNum)
	putTimestamp(buf[5:11], m.Timestamp)
	buf[11] = m.EventCode
	return buf
}

// Stock Directory Message (21 bytes)
// Type(1) + StockLocate(2) + TrackingNum(2) + Timestamp(6) + Symbol(2) + Label(8)
func encodeStockDirectory(m *Message) []byte {
	buf := make([]byte, 21)
	buf[0] = byte(m.Type)
	binary.BigEndian.PutUint16(buf[1:3], m.StockLocate)
	binary.BigEndian.PutUint16(buf[3:5], m.TrackingNum)
	putTimestamp(buf[5:11], m.Timestamp)
	binary.BigEndian.PutUint16(buf[11:13], uint16(m.Symbol))
	label := PadLabel(m.Label)
	copy(buf[13:21], label[:])
	return buf
}

// Trade (31 bytes)
// Type(1) + StockLocate(2) + TrackingNum(2) + Timestamp(6) + Symbol(2) +
// Side(1) + Qty(4, fixed-point 1e4) + Price(4, fixed-point 1e4) + OrderID(8) + ReasonCode(1)
func encodeTrade(m *Message) []byte {
	buf := make([]byte, 31)
	buf[0] = byte(m.Type)
	binary.BigEndian.PutUint16(buf[1:3], m.StockLocate)
	binary.BigEndian.PutUint16(buf[3:5], m.TrackingNum)
	putTimestamp(buf[5:11], m.Timestamp)
	binary.BigEndian.PutUint16(buf[11:13], uint16(m.Symbol))
	buf[13] = byte(m.Side)
	binary.BigEndian.PutUint32(buf[14:18], Price4(m.Qty))
	binary.BigEndian.PutUint32(buf[18:22], Price4(m.Price))
	binary.BigEndian.PutUint64(buf[22:30], m.OrderID)
	buf[30] = m.ReasonCode
	return buf
}
