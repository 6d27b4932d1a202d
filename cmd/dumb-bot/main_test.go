package main

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"blackjack-server/internal/config"
	"blackjack-server/internal/game"
	"blackjack-server/internal/protocol"
)

// fakeServer answers reply verbs from replies and records every frame.
func fakeServer(t *testing.T, conn net.Conn, replies map[string][]string) <-chan []string {
	t.Helper()
	out := make(chan []string, 1)
	go func() {
		var seen []string
		r := bufio.NewReader(conn)
		defer func() { out <- seen }()
		for {
			frame, err := protocol.ReadFrame(r)
			if err != nil {
				return
			}
			seen = append(seen, frame)
			req, err := protocol.Parse(frame)
			if err != nil || !req.WantsReply() {
				continue
			}
			queue := replies[req.Verb]
			if len(queue) == 0 {
				_ = protocol.WriteFrame(conn, "")
				continue
			}
			_ = protocol.WriteFrame(conn, queue[0])
			replies[req.Verb] = queue[1:]
		}
	}()
	return out
}

func TestJoinAndStartCreatesRoom(t *testing.T) {
	srv, cli := net.Pipe()
	seen := fakeServer(t, srv, map[string][]string{
		protocol.VerbStarted: {"false", "true"},
		protocol.VerbDupRoom: {"false"},
	})
	c := &client{conn: cli, r: bufio.NewReader(cli)}
	cfg := config.BotConfig{User: "bot", Room: "lobby"}
	if err := joinAndStart(c, cfg); err != nil {
		t.Fatalf("joinAndStart: %v", err)
	}
	_ = cli.Close()
	got := strings.Join(<-seen, " ")
	want := "started:lobby duproom:lobby addroom:lobby:0:0 joinroom:lobby:bot startgame:lobby started:lobby"
	if got != want {
		t.Fatalf("frames = %q\nwant %q", got, want)
	}
}

func TestJoinAndStartRefusesRunningTable(t *testing.T) {
	srv, cli := net.Pipe()
	seen := fakeServer(t, srv, map[string][]string{protocol.VerbStarted: {"true"}})
	c := &client{conn: cli, r: bufio.NewReader(cli)}
	if err := joinAndStart(c, config.BotConfig{User: "bot", Room: "lobby"}); err == nil {
		t.Fatalf("joinAndStart on running table succeeded")
	}
	_ = cli.Close()
	<-seen
}

func TestParsePolicy(t *testing.T) {
	if parsePolicy("simple") != game.PolicySimple || parsePolicy("advanced") != game.PolicyAdvanced || parsePolicy("") != game.PolicyAdvanced {
		t.Fatalf("parsePolicy mismatch")
	}
}
