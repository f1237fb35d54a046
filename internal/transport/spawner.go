package transport

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	log "github.com/jinzhongjia/nvimrpc/pkg/minilog"
)

// Spawner owns the exec.Cmd and its stdin/stdout pipes for a ChildProcess
// transport, kept separate from ChildProcess so the process-lifecycle
// mechanics (pipe wiring, wait/kill) don't entangle with the transport
// state machine above it.
type Spawner struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// Spawn launches path with args, wiring stdin/stdout as pipes and
// inheriting stderr. On Unix the child is placed in its own process
// group (Setpgid) so Kill can be directed at the whole group the child
// may have spawned, not just the immediate process — a headless editor
// with a GUI front-end of its own is a real case this guards against.
func Spawn(path string, args ...string) (*Spawner, error) {
	cmd := exec.Command(path, args...)
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	log.Debug("spawned child process: %v %v (pid %v)", path, args, cmd.Process.Pid)

	return &Spawner{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

// Stdin returns the pipe connected to the child's standard input.
func (s *Spawner) Stdin() io.WriteCloser { return s.stdin }

// Stdout returns the pipe connected to the child's standard output.
func (s *Spawner) Stdout() io.ReadCloser { return s.stdout }

// Shutdown closes stdin, the child's usual cue to exit on its own, then
// waits up to timeout for the process to exit. timeout == 0 means wait
// indefinitely. On timeout, the process group is force-killed.
// Stdout is always closed on the way out. Idempotent: calling Shutdown
// more than once is safe and returns nil after the first call.
func (s *Spawner) Shutdown(timeout time.Duration) error {
	if s.cmd == nil {
		return nil
	}

	_ = s.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	if timeout <= 0 {
		err := <-done
		s.stdout.Close()
		s.cmd = nil
		return waitErr(err)
	}

	select {
	case err := <-done:
		s.stdout.Close()
		s.cmd = nil
		return waitErr(err)
	case <-time.After(timeout):
		log.Warn("child process did not exit within %v, killing", timeout)
		s.killGroup()
		<-done // reap, ignore exit status of a killed process
		s.stdout.Close()
		s.cmd = nil
		return nil
	}
}

func (s *Spawner) killGroup() {
	pgid, err := syscall.Getpgid(s.cmd.Process.Pid)
	if err != nil {
		s.cmd.Process.Kill()
		return
	}
	syscall.Kill(-pgid, syscall.SIGKILL)
}

func waitErr(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// a killed/exited child is not a transport failure
		return nil
	}
	return err
}
