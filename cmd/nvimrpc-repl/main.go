// Command nvimrpc-repl is a thin operator CLI around pkg/rpc: dial one of
// the four transports, then drop into an interactive loop that sends
// each line as either a request or (prefixed with "!") a notification.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/jinzhongjia/nvimrpc/pkg/minilog"
	"github.com/jinzhongjia/nvimrpc/pkg/rpc"
	"github.com/jinzhongjia/nvimrpc/pkg/value"

	"github.com/peterh/liner"
)

var (
	fSocket     = flag.String("socket", "", "connect over a unix domain socket at this path")
	fTCP        = flag.String("tcp", "", "connect over tcp to this host:port")
	fStdio      = flag.Bool("stdio", false, "speak MessagePack-RPC over this process's own stdin/stdout")
	fSpawn      = flag.Bool("spawn", false, "spawn nvim --headless --embed and speak over its pipes")
	fNvimPath   = flag.String("nvim", "nvim", "executable to spawn when -spawn is set")
	fTimeoutMs  = flag.Int("shutdown-timeout-ms", 5000, "ms to wait for a spawned child to exit on disconnect; 0 waits forever")
	fLevel      = flag.String("level", "info", "log level: debug, info, warn, error, fatal")
	fRingLines  = flag.Int("log-ring", 256, "lines retained for the :log REPL command")
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: nvimrpc-repl [-socket path | -tcp host:port | -stdio | -spawn] [options]")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	level, err := log.ParseLevel(*fLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -level %q: %v\n", *fLevel, err)
		os.Exit(1)
	}
	log.StdLogger(level)

	ring := log.NewRing(*fRingLines)
	log.AddLogRing("ring", ring, log.DEBUG)

	opts := rpc.Options{
		SocketPath:      *fSocket,
		UseStdio:        *fStdio,
		SpawnProcess:    *fSpawn,
		NvimPath:        *fNvimPath,
		ShutdownTimeout: shutdownTimeout(*fTimeoutMs),
	}
	if *fTCP != "" {
		host, port, err := splitHostPort(*fTCP)
		if err != nil {
			log.Fatal("invalid -tcp value %q: %v", *fTCP, err)
		}
		opts.TcpAddress = host
		opts.TcpPort = port
	}

	c, err := rpc.New(opts)
	if err != nil {
		log.Fatal("configuring client: %v", err)
	}

	if err := c.Connect(); err != nil {
		log.Fatal("connect: %v", err)
	}
	defer c.Disconnect()

	repl(c, ring)
}

func shutdownTimeout(ms int) time.Duration {
	if ms == 0 {
		return rpc.WaitForever
	}
	return time.Duration(ms) * time.Millisecond
}

func splitHostPort(hostport string) (string, uint16, error) {
	idx := strings.LastIndex(hostport, ":")
	if idx < 0 {
		return "", 0, fmt.Errorf("expected host:port")
	}
	var port uint16
	if _, err := fmt.Sscanf(hostport[idx+1:], "%d", &port); err != nil {
		return "", 0, fmt.Errorf("bad port: %v", err)
	}
	return hostport[:idx], port, nil
}

// repl drives an interactive line editor, sending each line to the peer.
// A line starting with "!" is sent as a Notification (no reply expected);
// everything else is a Request whose method is the first whitespace-
// separated token and whose remaining tokens become a params array of
// strings. ":log" dumps recently filtered log lines; "quit"/^D exits.
func repl(c *rpc.Client, ring *log.Ring) {
	fmt.Println("nvimrpc-repl: type a method name and arguments, or :log, or quit")

	input := liner.NewLiner()
	defer input.Close()

	input.SetCtrlCAborts(true)
	input.SetTabCompletionStyle(liner.TabPrints)

	for {
		line, err := input.Prompt("nvimrpc> ")
		if err == liner.ErrPromptAborted {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			log.Errorln(err)
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		input.AppendHistory(line)

		if line == "quit" || line == "exit" {
			break
		}
		if line == ":log" {
			for _, l := range ring.Dump() {
				fmt.Print(l)
			}
			continue
		}

		if err := dispatchLine(c, line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}

		if notifs := c.DrainNotifications(); len(notifs) > 0 {
			for _, n := range notifs {
				fmt.Printf("<- notification %s %s\n", n.Method, formatValue(n.Params))
			}
		}
	}
}

func dispatchLine(c *rpc.Client, line string) error {
	notify := strings.HasPrefix(line, "!")
	line = strings.TrimPrefix(line, "!")

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	method := fields[0]

	args := make([]value.Value, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, value.Str(f))
	}
	params := value.ArrayOf(args)

	if notify {
		return c.Notify(method, params)
	}

	result, err := c.Request(method, params)
	if err != nil {
		return err
	}
	fmt.Println(formatValue(result))
	return nil
}

func formatValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNil:
		return "nil"
	case value.KindBool:
		b, _ := v.ExpectBool()
		return fmt.Sprintf("%v", b)
	case value.KindInt:
		i, _ := v.ExpectI64()
		return fmt.Sprintf("%d", i)
	case value.KindUint:
		u, _ := v.ExpectU64()
		return fmt.Sprintf("%d", u)
	case value.KindFloat:
		f, _ := v.ExpectF64()
		return fmt.Sprintf("%g", f)
	case value.KindStr:
		s, _ := v.ExpectStr()
		return s
	case value.KindBin:
		b, _ := v.ExpectBin()
		return fmt.Sprintf("<%d bytes>", len(b))
	case value.KindArray:
		arr, _ := v.ExpectArray()
		parts := make([]string, len(arr))
		for i, e := range arr {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case value.KindMap:
		m, _ := v.ExpectMap()
		parts := make([]string, 0, len(m))
		for k, e := range m {
			parts = append(parts, k+"="+formatValue(e))
		}
		return "{" + strings.Join(parts, " ") + "}"
	case value.KindExt:
		ext, _ := v.ExpectExt()
		return fmt.Sprintf("ext(type=%d, %d bytes)", ext.Type, len(ext.Data))
	case value.KindTimestamp:
		ts, _ := v.ExpectTimestamp()
		return fmt.Sprintf("timestamp(%d.%09d)", ts.Seconds, ts.Nanoseconds)
	default:
		return "?"
	}
}
