package ipc

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startServer(t *testing.T, lineFile string) (*Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "player.sock")
	s := NewServer(socketPath, lineFile)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s, socketPath
}

func readLine(t *testing.T, r *bufio.Reader, conn net.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	return line[:len(line)-1]
}

func TestBroadcast(t *testing.T) {
	lineFile := filepath.Join(t.TempDir(), "lyrics")
	s, socketPath := startServer(t, lineFile)
	s.Broadcast("first line")

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	r := bufio.NewReader(conn)

	if got := readLine(t, r, conn); got != "first line" {
		t.Errorf("initial line = %q, want %q", got, "first line")
	}

	// 等待连接加入广播列表
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.clientConnsLock.Lock()
		n := len(s.clientConns)
		s.clientConnsLock.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.Broadcast("second\nline")
	if got := readLine(t, r, conn); got != "second line" {
		t.Errorf("broadcast line = %q, want %q", got, "second line")
	}
	if s.Current() != "second line" {
		t.Errorf("Current() = %q", s.Current())
	}

	content, err := os.ReadFile(lineFile)
	if err != nil {
		t.Fatalf("read line file: %v", err)
	}
	if string(content) != "second line\n" {
		t.Errorf("line file = %q", content)
	}
}

func TestSecondInstanceRejected(t *testing.T) {
	_, socketPath := startServer(t, "")

	other := NewServer(socketPath, "")
	if err := other.Start(); err == nil {
		other.Close()
		t.Fatal("expected second instance to fail acquiring the lock")
	}
}
