package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dystopia0910/rtcore/pkg/config"
	"github.com/Dystopia0910/rtcore/pkg/probe"
	"github.com/Dystopia0910/rtcore/pkg/sampler"
	"github.com/Dystopia0910/rtcore/pkg/sched"
)

func main() {
	var (
		portFlag    = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag  = flag.String("config", "config.yaml", "Configuration file path")
		simFlag     = flag.Bool("sim", false, "Use simulated source instead of serial port")
		listFlag    = flag.Bool("list", false, "List available serial ports and exit")
		channelFlag = flag.Int("channel", -1, "Input channel override")
	)
	flag.Parse()

	if *listFlag {
		ports, err := probe.Ports()
		if err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p.Name)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Override input channel if provided via command line
	if *channelFlag >= 0 {
		cfg.Sampling.Channel = uint32(*channelFlag)
	}

	// Select the acquisition source
	var src probe.Source
	if *simFlag {
		src = probe.NewSim(&cfg.Sim)
	} else {
		src = probe.NewSerial(cfg.Serial.Port, cfg.Serial.Baud)
	}

	if err := src.Configure(); err != nil {
		log.Fatalf("Failed to configure acquisition source: %v", err)
	}
	defer src.Close()

	pipeline := sampler.New(src, sampler.Params{
		PeriodMs:  cfg.Sampling.PeriodMs,
		Window:    cfg.Sampling.Window,
		FullScale: cfg.Sampling.FullScale,
		MaxUnit:   cfg.Sampling.MaxUnit,
		Channel:   cfg.Sampling.Channel,
	})

	// The scheduler's tick count doubles as the monotonic millisecond clock:
	// one tick per TickInterval, 1 ms by default.
	var scheduler *sched.Scheduler

	tasks := []sched.Task{
		{
			Name:   "sample",
			Period: 10,
			Handler: func() {
				if err := pipeline.Service(uint32(scheduler.Ticks())); err != nil {
					log.Printf("Sampling failed: %v", err)
				}
			},
		},
		{
			Name:   "telemetry",
			Period: 500,
			Handler: func() {
				avg := pipeline.AverageAscii()
				log.Printf("Reading %s (last %d, window %d)", avg[:], pipeline.Last(), pipeline.Window())
			},
		},
		{
			Name:   "stats",
			Period: 5000,
			Handler: func() {
				log.Printf("Scheduler: %d ticks, %d cycles, %d overruns",
					scheduler.Ticks(), scheduler.Cycles(), scheduler.Overruns())
			},
		},
	}

	scheduler, err = sched.New(tasks)
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}

	ticker := sched.NewTicker(cfg.Scheduler.TickInterval)
	if err := ticker.Start(scheduler.Tick); err != nil {
		log.Fatalf("Failed to start tick source: %v", err)
	}
	defer ticker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Dispatching %d tasks (tick %v)", scheduler.Len(), ticker.Interval())
	if err := scheduler.Run(ctx); err != nil {
		log.Fatalf("Scheduler stopped: %v", err)
	}
	log.Printf("Shutdown complete")
}
