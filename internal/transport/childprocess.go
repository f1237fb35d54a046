package transport

import (
	"io"
	"sync"
	"time"

	log "github.com/jinzhongjia/nvimrpc/pkg/minilog"
)

// EmbedArgs are the arguments appended to nvim_path when spawning the
// editor so it runs headless and speaks MessagePack-RPC over its own
// stdio instead of attaching a terminal UI.
var EmbedArgs = []string{"--headless", "--embed"}

// childState tracks the process lifecycle: Idle, Spawning, Running, and
// ShuttingDown.
type childState int

const (
	stateIdle childState = iota
	stateSpawning
	stateRunning
	stateShuttingDown
)

// ChildProcess spawns the editor as a subprocess and speaks MessagePack-RPC
// over its piped stdin/stdout.
type ChildProcess struct {
	path    string
	args    []string
	timeout time.Duration

	mu      sync.Mutex
	state   childState
	spawner *Spawner
}

// NewChildProcess configures (without spawning) a transport that will run
// path with args when Connect is called. timeout bounds the graceful
// shutdown wait; 0 means wait indefinitely.
func NewChildProcess(path string, timeout time.Duration, args ...string) *ChildProcess {
	return &ChildProcess{path: path, args: args, timeout: timeout}
}

func (c *ChildProcess) Connect(_ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = stateSpawning

	sp, err := Spawn(c.path, c.args...)
	if err != nil {
		c.state = stateIdle
		return err
	}

	c.spawner = sp
	c.state = stateRunning
	return nil
}

// Disconnect closes stdin, waits up to the configured timeout for a clean
// exit, then force-kills the process group on timeout. Idempotent: it is
// always safe to call, including from Idle.
func (c *ChildProcess) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateIdle {
		return nil
	}

	c.state = stateShuttingDown
	var err error
	if c.spawner != nil {
		err = c.spawner.Shutdown(c.timeout)
		c.spawner = nil
	}
	c.state = stateIdle
	return err
}

func (c *ChildProcess) Read(buf []byte) (int, error) {
	c.mu.Lock()
	running := c.state == stateRunning && c.spawner != nil
	sp := c.spawner
	c.mu.Unlock()

	if !running {
		return 0, ErrConnectionClosed
	}

	n, err := sp.Stdout().Read(buf)
	if err == io.EOF {
		log.Debug("childprocess: read EOF, child exited")
		return n, ErrConnectionClosed
	}
	return n, err
}

func (c *ChildProcess) Write(data []byte) error {
	c.mu.Lock()
	running := c.state == stateRunning && c.spawner != nil
	sp := c.spawner
	c.mu.Unlock()

	if !running {
		return ErrConnectionClosed
	}

	_, err := sp.Stdin().Write(data)
	return classifyWriteErr(err)
}

func (c *ChildProcess) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateRunning
}
