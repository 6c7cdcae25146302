// Command monitor connects to a running engine's telemetry WebSocket,
// subscribes to symbols, and prints every trade and system event in
// human-readable form.
//
// Usage:
//
//	monitor                              # connect to localhost:8100, subscribe to all
//	monitor -url ws://host:8100/feed      # custom endpoint
//	monitor -symbols 0,2                  # subscribe to specific symbol ids
//	monitor -json                         # request JSON format instead (pass-through print)
//	monitor -stats 10                     # print message rate stats every N seconds
//	monitor -hex                          # also dump raw hex alongside decoded output
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8100/feed", "WebSocket endpoint")
	symbols := flag.String("symbols", "", "Comma-separated symbol ids or empty for all")
	useJSON := flag.Bool("json", false, "Request JSON format instead of binary")
	statsInterval := flag.Int("stats", 0, "Print message rate stats every N seconds (0 = off)")
	showHex := flag.Bool("hex", false, "Print raw hex dump alongside decoded output")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	log.Printf("connecting to %s", *url)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	log.Println("connected")

	format := "binary"
	if *useJSON {
		format = "json"
	}
	sendControl(conn, map[string]any{"action": "format", "format": format})

	symList := parseSymbols(*symbols)
	sendControl(conn, map[string]any{"action": "subscribe", "symbols": symList})
	log.Printf("subscribed to %v in %s mode", symList, format)

	var msgCount uint64
	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
			defer ticker.Stop()
			var last uint64
			for range ticker.C {
				cur := atomic.LoadUint64(&msgCount)
				delta := cur - last
				rate := float64(delta) / float64(*statsInterval)
				log.Printf("[stats] %d msgs total | %.1f msgs/sec", cur, rate)
				last = cur
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(200 * time.Millisecond)
		os.Exit(0)
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}

		atomic.AddUint64(&msgCount, 1)

		if msgType == websocket.TextMessage || *useJSON {
			fmt.Println(string(data))
			continue
		}

		decodeBinaryFrames(data, *showHex)
	}
}

func parseSymbols(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		var v int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func sendControl(conn *websocket.Conn, msg map[string]any) {
	data, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Fatalf("send control: %v", err)
	}
}

// decodeBinaryFrames parses one or more 2-byte-length-prefixed wire messages
// from a single WebSocket binary frame.
func decodeBinaryFrames(data []byte, showHex bool) {
	if len(data) < 2 {
		fmt.Printf("??? short frame (%d bytes)\n", len(data))
		return
	}

	frameLen := int(binary.BigEndian.Uint16(data[0:2]))
	if frameLen+2 == len(data) {
		body := data[2:]
		if showHex {
			printHex(data)
		}
		decodeMessage(body)
		return
	}

	offset := 0
	decoded := false
	for offset+2 < len(data) {
		frameLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		if frameLen <= 0 || offset+2+frameLen > len(data) {
			break
		}
		body := data[offset+2 : offset+2+frameLen]
		if showHex {
			printHex(data[offset : offset+2+frameLen])
		}
		decodeMessage(body)
		offset += 2 + frameLen
		decoded = true
	}

	if !decoded {
		if showHex {
			printHex(data)
		}
		decodeMessage(data)
	}
}

func decodeMessage(body []byte) {
	if len(body) == 0 {
		return
	}

	switch body[0] {
	case 'S':
		decodeSystemEvent(body)
	case 'R':
		decodeStockDirectory(body)
	case 'P':
		decodeTrade(body)
	default:
		fmt.Printf("UNKNOWN  type=%c (0x%02x) len=%d\n", body[0], body[0], len(body))
	}
}

func readTimestamp(buf []byte) int64 {
	return int64(buf[0])<<40 | int64(buf[1])<<32 | int64(buf[2])<<24 |
		int64(buf[3])<<16 | int64(buf[4])<<8 | int64(buf[5])
}

func fmtTimestamp(nanos int64) string {
	d := time.Duration(nanos) * time.Nanosecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	us := (nanos / 1000) % 1000000
	return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, us)
}

func readLabel(buf []byte) string {
	return strings.TrimRight(string(buf), " ")
}

func fmtPrice4(raw uint32) string {
	whole := raw / 10000
	frac := raw % 10000
	return fmt.Sprintf("%d.%04d", whole, frac)
}

func fmtSide(b int8) string {
	switch {
	case b > 0:
		return "BUY"
	case b < 0:
		return "SELL"
	default:
		return "?"
	}
}

// System Event: Type(1) + Locate(2) + Tracking(2) + Timestamp(6) + EventCode(1) + Reserved(1) = 13
func decodeSystemEvent(b []byte) {
	if len(b) < 13 {
		fmt.Printf("SYSTEM   truncated (%d bytes)\n", len(b))
		return
	}
	locate := binary.BigEndian.Uint16(b[1:3])
	ts := readTimestamp(b[5:11])
	event := b[11]

	eventName := map[byte]string{
		'O': "START_MESSAGES", 'Q': "START_MARKET", 'M': "END_MARKET", 'C': "END_MESSAGES",
	}
	name := eventName[event]
	if name == "" {
		name = fmt.Sprintf("0x%02x", event)
	}

	fmt.Printf("SYSTEM   %s  locate=%d  event=%s\n", fmtTimestamp(ts), locate, name)
}

// Stock Directory: Type(1)+Locate(2)+Tracking(2)+Timestamp(6)+Symbol(2)+Label(8) = 21
func decodeStockDirectory(b []byte) {
	if len(b) < 21 {
		fmt.Printf("STOCKDIR truncated (%d bytes)\n", len(b))
		return
	}
	locate := binary.BigEndian.Uint16(b[1:3])
	ts := readTimestamp(b[5:11])
	sym := binary.BigEndian.Uint16(b[11:13])
	label := readLabel(b[13:21])

	fmt.Printf("STOCKDIR %s  locate=%-3d  symbol=%-4d  label=%-8s\n", fmtTimestamp(ts), locate, sym, label)
}

// Trade: Type(1)+Locate(2)+Tracking(2)+Timestamp(6)+Symbol(2)+Side(1)+Qty(4)+Price(4)+OrderID(8)+ReasonCode(1) = 31
func decodeTrade(b []byte) {
	if len(b) < 31 {
		fmt.Printf("TRADE    truncated (%d bytes)\n", len(b))
		return
	}
	locate := binary.BigEndian.Uint16(b[1:3])
	ts := readTimestamp(b[5:11])
	sym := binary.BigEndian.Uint16(b[11:13])
	side := int8(b[13])
	qty := binary.BigEndian.Uint32(b[14:18])
	price := binary.BigEndian.Uint32(b[18:22])
	orderID := binary.BigEndian.Uint64(b[22:30])

	fmt.Printf("TRADE    %s  locate=%-3d  symbol=%-4d  %4s  qty=%s @ %s  order=%d\n",
		fmtTimestamp(ts), locate, sym, fmtSide(side), fmtPrice4(qty), fmtPrice4(price), orderID)
}

func printHex(data []byte) {
	var sb strings.Builder
	sb.WriteString("         hex: ")
	for i, b := range data {
		if i > 0 && i%16 == 0 {
			sb.WriteString("\n              ")
		}
		fmt.Fprintf(&sb, "%02x ", b)
	}
	fmt.Println(sb.String())
}
