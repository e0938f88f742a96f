// Command pulse-repl is an interactive explorer for a pulse registry.
// It maintains string observables under user-chosen keys and lets you
// subscribe to them with priority and rate-limit options, exercising the
// dispatch engine from a shell.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/pulse-state/pulse-go/pkg/log"
	"github.com/pulse-state/pulse-go/pkg/observable"
	"github.com/pulse-state/pulse-go/pkg/registry"
)

type watch struct {
	id  observable.SubscriptionID
	obs *observable.Observable[string]
}

type repl struct {
	reg    *registry.Registry
	rl     *readline.Instance
	logger zerolog.Logger
	events log.Logger

	mu      sync.Mutex
	watches map[string][]watch
}

func main() {
	logPath := flag.String("log", "", "write engine events to a CBOR log file")
	seedPath := flag.String("seed", "", "seed the registry from a YAML file")
	flag.Parse()

	console := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	reg := registry.New()
	if *seedPath != "" {
		if err := registry.SeedFile(reg, *seedPath); err != nil {
			console.Fatal().Err(err).Str("path", *seedPath).Msg("seed registry")
		}
	}

	var events log.Logger
	if *logPath != "" {
		fileLogger, err := log.NewFileLogger(*logPath)
		if err != nil {
			console.Fatal().Err(err).Str("path", *logPath).Msg("open event log")
		}
		defer fileLogger.Close()
		// Event rates here are interactive, so flush each event and let a
		// second terminal tail the log live.
		fileLogger.SyncOnWrite(true)
		events = fileLogger
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pulse> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		console.Fatal().Err(err).Msg("create readline")
	}
	defer rl.Close()

	r := &repl{
		reg:     reg,
		rl:      rl,
		logger:  console,
		events:  events,
		watches: make(map[string][]watch),
	}
	r.run()
}

func (r *repl) run() {
	fmt.Println("pulse-repl - type 'help' for commands")
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			r.printHelp()
		case "keys":
			r.cmdKeys()
		case "get":
			r.cmdGet(fields[1:])
		case "set":
			r.cmdSet(fields[1:])
		case "silent":
			r.cmdSilent(fields[1:])
		case "notify":
			r.cmdNotify(fields[1:])
		case "batch":
			r.cmdBatch(fields[1:])
		case "watch":
			r.cmdWatch(fields[1:])
		case "unwatch":
			r.cmdUnwatch(fields[1:])
		case "rm":
			r.cmdRemove(fields[1:])
		case "exit", "quit":
			return
		default:
			fmt.Printf("unknown command %q - type 'help'\n", fields[0])
		}
	}
}

func (r *repl) printHelp() {
	fmt.Println(`Commands:
  keys                                 list registry keys
  get <key>                            print the current value
  set <key> <value>                    set a value and notify watchers
  silent <key> <value>                 set a value without notifying
  notify <key>                         re-dispatch the current value
  batch <key> <v1> <v2> ...            set several values in one batch
  watch <key> [throttle <dur>] [debounce <dur>] [high|low] [main]
                                       subscribe to a key
  unwatch <key>                        remove all watches for a key
  rm <key>                             remove the key from the registry
  exit                                 quit`)
}

// lookup returns the observable for key, creating it on demand and wiring
// the event logger the first time.
func (r *repl) lookup(key string) *observable.Observable[string] {
	_, existed := registry.Lookup[string](r.reg, key)
	obs := registry.String(r.reg, key, "")
	if !existed && r.events != nil {
		obs.SetEventLogger(r.events)
	}
	return obs
}

func (r *repl) cmdKeys() {
	keys := r.reg.Keys()
	if len(keys) == 0 {
		fmt.Println("(empty)")
		return
	}
	for _, key := range keys {
		fmt.Println(" ", key)
	}
}

func (r *repl) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")
		return
	}
	obs, ok := registry.Lookup[string](r.reg, args[0])
	if !ok {
		fmt.Printf("no such key %q\n", args[0])
		return
	}
	fmt.Printf("%s = %q\n", args[0], obs.Value())
}

func (r *repl) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: set <key> <value>")
		return
	}
	r.lookup(args[0]).Set(strings.Join(args[1:], " "))
}

func (r *repl) cmdSilent(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: silent <key> <value>")
		return
	}
	r.lookup(args[0]).SetSilently(strings.Join(args[1:], " "))
}

func (r *repl) cmdNotify(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: notify <key>")
		return
	}
	r.lookup(args[0]).Notify()
}

func (r *repl) cmdBatch(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: batch <key> <v1> <v2> ...")
		return
	}
	obs := r.lookup(args[0])
	obs.BeginUpdates()
	for _, v := range args[1:] {
		obs.Set(v)
	}
	obs.EndUpdates()
	fmt.Printf("batched %d writes, watchers see only the last\n", len(args)-1)
}

func (r *repl) cmdWatch(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: watch <key> [throttle <dur>] [debounce <dur>] [high|low] [main]")
		return
	}
	key := args[0]

	var opts []observable.SubscribeOption
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "throttle", "debounce":
			if i+1 >= len(rest) {
				fmt.Printf("%s needs a duration, e.g. 500ms\n", rest[i])
				return
			}
			d, err := time.ParseDuration(rest[i+1])
			if err != nil {
				fmt.Printf("bad duration %q: %v\n", rest[i+1], err)
				return
			}
			if rest[i] == "throttle" {
				opts = append(opts, observable.Throttled(d))
			} else {
				opts = append(opts, observable.Debounced(d))
			}
			i++
		case "high":
			opts = append(opts, observable.WithPriority(observable.PriorityHigh))
		case "low":
			opts = append(opts, observable.WithPriority(observable.PriorityLow))
		case "main":
			opts = append(opts, observable.DeliverOnMain())
		default:
			fmt.Printf("unknown watch option %q\n", rest[i])
			return
		}
	}

	obs := r.lookup(key)
	logger := r.logger
	id := obs.Subscribe(func(v string) {
		logger.Info().Str("key", key).Str("value", v).Msg("update")
	}, opts...)

	r.mu.Lock()
	r.watches[key] = append(r.watches[key], watch{id: id, obs: obs})
	r.mu.Unlock()
}

func (r *repl) cmdUnwatch(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: unwatch <key>")
		return
	}
	r.mu.Lock()
	watches := r.watches[args[0]]
	delete(r.watches, args[0])
	r.mu.Unlock()

	for _, w := range watches {
		w.obs.Unsubscribe(w.id)
	}
	fmt.Printf("removed %d watch(es)\n", len(watches))
}

func (r *repl) cmdRemove(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: rm <key>")
		return
	}
	r.cmdUnwatch(args)
	r.reg.Remove(args[0])
}
