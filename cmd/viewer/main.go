// Command viewer is a terminal test client for a running speccast
// server. It performs the viewer handshake, then logs a summary of every
// packet it receives.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/speccast/speccast/pkg/protocol"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/", "Server URL to dial")
	count := flag.Int("n", 0, "Exit after this many packets (0 = run until interrupted)")
	flag.Parse()

	log.Printf("Connecting to %s", *url)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// Close the connection on Ctrl+C so ReadMessage unblocks.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("Interrupted")
		conn.Close()
	}()

	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Fatalf("Reading init packet: %v", err)
	}
	var init protocol.Init
	if err := json.Unmarshal(data, &init); err != nil || init.Type != protocol.TypeInit {
		log.Fatalf("Unexpected first packet: %s", data)
	}
	log.Printf("Init: %dx%d grid, phase %s", init.Width, init.Height, init.Phase)
	if init.LastMessage != "" {
		log.Printf("Last message: %s", init.LastMessage)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ready")); err != nil {
		log.Fatalf("Sending ack: %v", err)
	}
	log.Printf("Sent ack, streaming...")

	var packets, rects, bytes int
	start := time.Now()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Connection closed: %v", err)
			break
		}
		packets++
		bytes += len(data)

		switch protocol.Kind(data) {
		case protocol.TypeRectangles:
			var pkt protocol.RectanglePacket
			if err := json.Unmarshal(data, &pkt); err != nil {
				log.Printf("Bad rectangle packet: %v", err)
				continue
			}
			rects += len(pkt.Rectangles)
			log.Printf("Packet %d: %d rectangles (%d bytes)", packets, len(pkt.Rectangles), len(data))
		case protocol.TypeInit:
			log.Printf("Unexpected re-init: %s", data)
		default:
			// Conversation text from the sharer side.
			log.Printf("Message: %s", data)
		}

		if *count > 0 && packets >= *count {
			break
		}
	}

	log.Printf("Received %d packets, %d rectangles, %d bytes in %s",
		packets, rects, bytes, time.Since(start).Truncate(time.Second))
}
