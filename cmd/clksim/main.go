// clksim loads a clock tree description, stands up its gpio providers
// and drives the tree from an interactive prompt. Providers named with
// -hold are withheld until an explicit "attach", which makes the
// probe-defer path observable from the shell.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/shlex"

	"clktree-go/clk"
	"clktree-go/errcode"
	"clktree-go/gpio"
	"clktree-go/hwdesc"
	"clktree-go/types"

	_ "clktree-go/clk/fixedclk"
	_ "clktree-go/clk/gpioclk"
)

func main() {
	var (
		cfgPath = flag.String("config", "tree.yaml", "clock tree description file")
		hold    = flag.String("hold", "", "comma-separated providers to withhold until 'attach'")
		debug   = flag.Bool("debug", false, "log at debug level")
	)
	flag.Parse()

	lvl := slog.LevelInfo
	if *debug {
		lvl = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)

	if err := run(*cfgPath, *hold, log); err != nil {
		log.Error("clksim failed", "err", err)
		os.Exit(1)
	}
}

type sim struct {
	reg   *clk.Registry
	prov  *hwdesc.ProviderRegistry
	held  map[string]types.ProviderConfig
	chips map[string]gpio.Chip // sim chips, for level poking
	log   *slog.Logger
}

func run(cfgPath, hold string, log *slog.Logger) error {
	f, err := os.Open(cfgPath)
	if err != nil {
		return err
	}
	cfg, err := hwdesc.LoadConfig(f)
	f.Close()
	if err != nil {
		return err
	}

	s := &sim{
		reg:   clk.NewRegistry(),
		prov:  hwdesc.NewProviderRegistry(),
		held:  map[string]types.ProviderConfig{},
		chips: map[string]gpio.Chip{},
		log:   log,
	}

	withheld := map[string]bool{}
	for _, n := range strings.Split(hold, ",") {
		if n != "" {
			withheld[n] = true
		}
	}
	for _, pc := range cfg.Providers {
		if withheld[pc.Name] {
			s.held[pc.Name] = pc
			log.Info("withholding provider", "provider", pc.Name)
			continue
		}
		if err := s.attach(pc); err != nil {
			return err
		}
	}

	clk.Scan(s.reg, s.prov, hwdesc.FromConfig(cfg.Clocks), log)
	log.Info("tree scanned",
		"registered", s.reg.Names(),
		"deferred", s.reg.ProviderNames())

	return s.repl()
}

func (s *sim) attach(pc types.ProviderConfig) error {
	chip, err := newChip(pc)
	if err != nil {
		return err
	}
	if err := s.prov.Register(pc.Name, chip); err != nil {
		return err
	}
	s.chips[pc.Name] = chip
	s.log.Info("provider attached", "provider", pc.Name)
	return nil
}

func (s *sim) repl() error {
	sub := s.reg.Subscribe(32)
	defer sub.Cancel()

	in := bufio.NewScanner(os.Stdin)
	fmt.Print("clksim> ")
	for in.Scan() {
		args, err := shlex.Split(in.Text())
		if err != nil {
			fmt.Println("parse error:", err)
		} else if len(args) > 0 {
			if args[0] == "quit" || args[0] == "exit" {
				return nil
			}
			s.dispatch(args)
		}
		// Drain and print transitions caused by the command.
		for {
			select {
			case ev := <-sub.Events():
				fmt.Printf("  event: %s -> enabled=%v\n", ev.Clock, ev.Enabled)
				continue
			default:
			}
			break
		}
		fmt.Print("clksim> ")
	}
	return in.Err()
}

func (s *sim) dispatch(args []string) {
	switch cmd := args[0]; {
	case cmd == "list":
		fmt.Println("registered:", s.reg.Names())
		fmt.Println("providers: ", s.reg.ProviderNames())

	case cmd == "attach" && len(args) == 2:
		pc, ok := s.held[args[1]]
		if !ok {
			fmt.Println("no withheld provider", args[1])
			return
		}
		if err := s.attach(pc); err != nil {
			fmt.Println("attach:", err)
			return
		}
		delete(s.held, args[1])

	case (cmd == "enable" || cmd == "disable" || cmd == "status" || cmd == "rate") && len(args) == 2:
		c, err := s.reg.Get(args[1])
		if err != nil {
			if errors.Is(err, errcode.ProbeDefer) {
				fmt.Println("not ready yet, retry after attaching its provider")
			} else {
				fmt.Println("get:", err)
			}
			return
		}
		switch cmd {
		case "enable":
			if err := c.Enable(); err != nil {
				fmt.Println("enable:", err)
			}
		case "disable":
			c.Disable()
		case "status":
			fmt.Printf("%s: enabled=%v rate=%dHz\n", c.Name(), c.IsEnabled(), c.Rate())
		case "rate":
			fmt.Printf("%s: %dHz\n", c.Name(), c.Rate())
		}

	case cmd == "level" && len(args) == 3:
		lv, ok := chipLevel(s.chips[args[1]], args[2])
		if !ok {
			fmt.Println("unknown provider or line")
			return
		}
		fmt.Printf("%s:%s = %s\n", args[1], args[2], lv)

	case cmd == "help":
		fmt.Println("commands: list | enable <clk> | disable <clk> | status <clk> | rate <clk> | level <provider> <line> | attach <provider> | quit")

	default:
		fmt.Println("bad command, try 'help'")
	}
}

func chipLevel(c gpio.Chip, line string) (gpio.Level, bool) {
	type leveler interface {
		LevelOf(string) (gpio.Level, error)
	}
	lr, ok := c.(leveler)
	if !ok {
		return gpio.Low, false
	}
	lv, err := lr.LevelOf(line)
	if err != nil {
		return gpio.Low, false
	}
	return lv, true
}
