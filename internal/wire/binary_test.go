package wire

import (
	"encoding/binary"
	"testing"
)

func TestEncodeBinarySystemEvent(t *testing.T) {
	m := &Message{Type: MsgSystemEvent, StockLocate: 0, Timestamp: 123456, EventCode: EventStartOfMessages}
	data := EncodeBinary(m)
	if data == nil {
		t.Fatal("EncodeBinary returned nil for SystemEvent")
	}
	bodyLen := binary.BigEndian.Uint16(data[0:2])
	if bodyLen != 13 {
		t.Fatalf("SystemEvent body length = %d, want 13", bodyLen)
	}
	if data[2] != byte(MsgSystemEvent) {
		t.Fatalf("type byte = %c, want %c", data[2], MsgSystemEvent)
	}
	if data[13] != EventStartOfMessages {
		t.Fatalf("event code = %c, want %c", data[13], EventStartOfMessages)
	}
}

func TestEncodeBinaryStockDirectory(t *testing.T) {
	m := &Message{Type: MsgStockDirectory, StockLocate: 1, Symbol: 2, Label: "SYM2"}
	data := EncodeBinary(m)
	if data == nil {
		t.Fatal("EncodeBinary returned nil for StockDirectory")
	}
	bodyLen := binary.BigEndian.Uint16(data[0:2])
	if bodyLen != 21 {
		t.Fatalf("StockDirectory body length = %d, want 21", bodyLen)
	}
	// Label at body offset 13 (frame offset 15)
	label := string(data[15:23])
	if label != "SYM2    " {
		t.Fatalf("label = %q, want %q", label, "SYM2    ")
	}
}

func TestEncodeBinaryTrade(t *testing.T) {
	m := &Message{Type: MsgTrade, StockLocate: 1, Symbol: 3, Side: 1, Qty: 1.0, Price: 125.50, OrderID: 42}
	data := EncodeBinary(m)
	if data == nil {
		t.Fatal("EncodeBinary returned nil for Trade")
	}
	bodyLen := binary.BigEndian.Uint16(data[0:2])
	if bodyLen != 31 {
		t.Fatalf("Trade body length = %d, want 31", bodyLen)
	}
}

func TestEncodeBinaryUnknownType(t *testing.T) {
	m := &Message{Type: MsgType('Z')}
	data := EncodeBinary(m)
	if data != nil {
		t.Fatal("expected nil for unknown message type")
	}
}

func TestTimestamp6ByteEncoding(t *testing.T) {
	ts := int64(0x0102030405_06)
	m := &Message{Type: MsgSystemEvent, Timestamp: ts, EventCode: 'O'}
	data := EncodeBinary(m)
	// Timestamp is at body offset 5 (frame offset 7), 6 bytes
	if data[7] != 0x01 || data[8] != 0x02 || data[9] != 0x03 ||
		data[10] != 0x04 || data[11] != 0x05 || data[12] != 0x06 {
		t.Errorf("timestamp bytes = %x, want 010203040506", data[7:13])
	}
}
