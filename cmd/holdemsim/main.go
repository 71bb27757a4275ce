package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"holdemsim/internal/export"
	"holdemsim/internal/server"
	"holdemsim/internal/stats"
	"holdemsim/record"
	"holdemsim/replay"
	"holdemsim/sim"
)

const usage = `usage: holdemsim <command> [flags]

commands:
  sim      play self-play hands and append them to a JSONL log
  verify   re-derive every hand in a JSONL log from its seed and actions
  stats    aggregate a JSONL log into per-player summaries
  export   load a JSONL log into a sqlite or postgres store with dataset splits
  serve    run the HTTP/WebSocket session server
`

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL"))); err == nil {
		logger.SetLevel(lvl)
	}
	entry := logrus.NewEntry(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "sim":
		err = runSim(os.Args[2:], entry)
	case "verify":
		err = runVerify(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:], entry)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("[Main] %s failed: %v", os.Args[1], err)
	}
}

func runSim(args []string, entry *logrus.Entry) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	hands := fs.Int("hands", 1000, "number of hands to play")
	seed := fs.Uint64("seed", 1, "base seed; hand i uses seed+i")
	sb := fs.Int64("sb", 50, "small blind")
	bb := fs.Int64("bb", 100, "big blind")
	stack := fs.Int64("stack", 10000, "starting stack per player")
	levelEvery := fs.Int("level-every", 0, "double blinds every N hands (0 disables)")
	out := fs.String("out", "hands.jsonl", "output JSONL path")
	policy := fs.String("policy", "random", "action policy: random or caller")
	fs.Parse(args)

	var src0, src1 sim.ActionSource
	switch *policy {
	case "random":
		src0 = sim.NewRandom(int64(*seed) * 2)
		src1 = sim.NewRandom(int64(*seed)*2 + 1)
	case "caller":
		src0, src1 = sim.Caller{}, sim.Caller{}
	default:
		return fmt.Errorf("unknown policy %q", *policy)
	}

	w, err := record.OpenWriter(*out)
	if err != nil {
		return err
	}
	defer w.Close()

	r, err := sim.NewRunner(sim.RunnerConfig{
		Hands:      *hands,
		BaseSeed:   *seed,
		SmallBlind: *sb,
		BigBlind:   *bb,
		StartStack: *stack,
		LevelEvery: *levelEvery,
	}, src0, src1, w, entry)
	if err != nil {
		return err
	}

	summary, err := r.Run(signalContext())
	if err != nil {
		return err
	}
	entry.WithFields(logrus.Fields{
		"hands":  summary.HandsPlayed,
		"busted": summary.Busted,
		"out":    *out,
	}).Info("run complete")
	for id, net := range summary.Net {
		fmt.Printf("%s\t%+d\n", id, net)
	}
	return nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	in := fs.String("in", "hands.jsonl", "input JSONL path")
	fs.Parse(args)

	n, bad := 0, 0
	err := record.ForEach(*in, func(rec *record.HandRecord) error {
		n++
		if err := replay.Verify(rec); err != nil {
			bad++
			fmt.Fprintf(os.Stderr, "hand %s: %v\n", rec.HandID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("verified %d hands, %d divergent\n", n, bad)
	if bad > 0 {
		return fmt.Errorf("%d of %d hands diverged", bad, n)
	}
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	in := fs.String("in", "hands.jsonl", "input JSONL path")
	fs.Parse(args)

	rep, err := stats.Aggregate(*in)
	if err != nil {
		return err
	}
	return rep.WriteText(os.Stdout)
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	in := fs.String("in", "hands.jsonl", "input JSONL path")
	dsn := fs.String("dsn", "hands.db", "sqlite path or postgres:// URL")
	valPct := fs.Int("val", 10, "validation split percentage")
	testPct := fs.Int("test", 10, "test split percentage")
	fs.Parse(args)

	store, err := export.Open(*dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := signalContext()
	n, err := export.ExportFile(ctx, *in, store, *valPct, *testPct)
	if err != nil {
		return err
	}
	counts, err := store.CountBySplit(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d hands: train=%d val=%d test=%d\n",
		n, counts[export.SplitTrain], counts[export.SplitVal], counts[export.SplitTest])
	return nil
}

func runServe(args []string, entry *logrus.Entry) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "listen address")
	fs.Parse(args)

	srv := server.New(entry)
	defer srv.Close()

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	log.Printf("[Main] Starting session server on %s", *addr)
	return http.ListenAndServe(*addr, mux)
}

func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx
}
