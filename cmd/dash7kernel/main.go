// Command dash7kernel runs the DASH7 Mode 2 link-layer kernel against a
// simulated radio, ticking the event manager on a fixed schedule and
// reporting the boundary events an operator would want to see.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/dbehnke/dash7kernel/internal/config"
	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/isf"
	"github.com/dbehnke/dash7kernel/internal/isf/dbstore"
	"github.com/dbehnke/dash7kernel/internal/kernel"
	"github.com/dbehnke/dash7kernel/internal/radio"
)

const version = "0.1.0"

// dispatchTick is the wall-clock period the main loop advances the
// event manager by on each pass; the kernel itself only ever reasons
// in ticks, never wall time.
const dispatchTick = 10 * time.Millisecond

// Node owns the kernel plus the collaborators main() needs to open and
// tear down: the ISF store and, if it's a database, its handle.
type Node struct {
	cfg    *config.Config
	kernel *kernel.Kernel
	store  isf.Store
	db     *dbstore.DB

	running bool
	mu      sync.RWMutex

	color bool
}

// NewNode loads configuration, opens the configured ISF backend, and
// wires a simulated radio driver into a fresh kernel.
func NewNode(configFile string) (*Node, error) {
	cfg := config.New(configFile)
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open ISF store: %v", err)
	}

	radioDriver := radio.NewSimulated(1, int32(cfg.GetGuardTime()))

	kcfg := kernel.Config{
		Class:           dllcomm.DeviceClass(cfg.GetActiveClass()),
		HoldLimit:       cfg.GetHoldLimit(),
		LinkQualLimit:   cfg.GetLinkQualityLimit(),
		GuardTime:       cfg.GetGuardTime(),
		WatchdogPeriod:  cfg.GetWatchdogPeriod(),
		WatchdogEnabled: cfg.GetWatchdogEnabled(),
		BAttempts:       cfg.GetBeaconAttempts(),
	}

	logger := log.New(os.Stdout, "[kernel] ", log.LstdFlags)
	k := kernel.New(kcfg, radioDriver, store, logger)
	k.SetHooks(kernel.Hooks{
		RFATerminate: func(reason dllcomm.RFATerminateReason) {
			logger.Printf("radio task terminated: %v", reason)
		},
	})

	if err := k.Sysinit(); err != nil {
		store.Close()
		return nil, fmt.Errorf("sysinit failed: %v", err)
	}

	return &Node{
		cfg:    cfg,
		kernel: k,
		store:  store,
		db:     db,
		color:  cfg.GetColorDebug() && isatty.IsTerminal(os.Stdout.Fd()),
	}, nil
}

func openStore(cfg *config.Config) (isf.Store, *dbstore.DB, error) {
	if cfg.GetISFBackend() != "database" {
		return isf.NewFileStore(cfg.GetISFPath()), nil, nil
	}

	db, err := dbstore.Open(dbstore.Config{
		Path:      cfg.GetDatabasePath(),
		CacheSize: cfg.GetDatabaseCacheSize(),
		Debug:     cfg.GetDatabaseDebug(),
	}, log.New(os.Stdout, "[dbstore] ", log.LstdFlags))
	if err != nil {
		return nil, nil, err
	}
	return dbstore.NewStore(db), db, nil
}

// Run drives the dispatcher until ctx is cancelled.
func (n *Node) Run(ctx context.Context) error {
	n.mu.Lock()
	n.running = true
	n.mu.Unlock()

	n.logStartup()

	ticker := time.NewTicker(dispatchTick)
	defer ticker.Stop()
	statsTicker := time.NewTicker(30 * time.Second)
	defer statsTicker.Stop()

	elapsedTicks := int32(1)
	for {
		select {
		case <-ctx.Done():
			n.mu.Lock()
			n.running = false
			n.mu.Unlock()
			return nil
		case <-ticker.C:
			n.kernel.Dispatch(elapsedTicks)
		case <-statsTicker.C:
			n.printStats()
		}
	}
}

func (n *Node) logStartup() {
	prefix := "=="
	if n.color {
		prefix = "\033[36m==\033[0m"
	}
	log.Printf("%s dash7kernel v%s starting", prefix, version)
	log.Printf("%s class=%v subnet=0x%02X hold_limit=%d idle_state=%v",
		prefix, dllcomm.DeviceClass(n.cfg.GetActiveClass()), n.cfg.GetSubnet(),
		n.cfg.GetHoldLimit(), n.kernel.IdleState())
	if n.db != nil {
		log.Printf("%s ISF database size: %s", prefix, n.db.SizeSummary(n.cfg.GetDatabasePath()))
	}
}

func (n *Node) printStats() {
	log.Printf("stats: idle_state=%v session_depth=%d", n.kernel.IdleState(), n.kernel.Stack.Count()+1)
}

// Close releases the ISF store (and, in database mode, the underlying
// database handle).
func (n *Node) Close() error {
	if n.db != nil {
		n.db.Close()
	}
	return n.store.Close()
}

func main() {
	var (
		configFile = flag.String("config", defaultConfigPath(), "Configuration file path")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("dash7kernel v%s\n", version)
		return
	}
	if flag.NArg() > 0 {
		*configFile = flag.Arg(0)
	}

	log.SetFlags(log.LstdFlags)

	node, err := NewNode(*configFile)
	if err != nil {
		log.Fatalf("failed to start node: %v", err)
	}
	defer node.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	if err := node.Run(ctx); err != nil {
		log.Fatalf("kernel run error: %v", err)
	}
	log.Printf("dash7kernel stopped")
}

func defaultConfigPath() string {
	if _, err := os.Stat("dash7kernel.ini"); err == nil {
		return "dash7kernel.ini"
	}
	if _, err := os.Stat("/etc/dash7kernel.ini"); err == nil {
		return "/etc/dash7kernel.ini"
	}
	return "dash7kernel.ini"
}
