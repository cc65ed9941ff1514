package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	freshproxy "github.com/antonls/freshproxy"
	"github.com/antonls/freshproxy/cache"
	"github.com/antonls/freshproxy/metrics"
	"github.com/antonls/freshproxy/pkg/origin"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	configFilenameFlag string
	ipFlag             string
	portFlag           int
	adminAddrFlag      string
	capacityFlag       int
	originPortFlag     string
	verbosityTraceFlag bool
)

func init() {
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.StringVar(&ipFlag, "ip", "", "IP address to bind to (overrides config)")
	flag.IntVar(&portFlag, "port", 0, "Port to listen on (overrides config)")
	flag.StringVar(&adminAddrFlag, "admin", "", "Address for the admin endpoints (overrides config)")
	flag.IntVar(&capacityFlag, "capacity", 0, "Cache capacity in entries (overrides config)")
	flag.StringVar(&originPortFlag, "origin-port", "", "Port to contact origins on (overrides config)")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
}

func main() {
	flag.Parse()

	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}
	log.Logger = log.Level(logLevel).Output(zerolog.ConsoleWriter{Out: os.Stdout})

	var config freshproxy.FileConfig
	if configFilenameFlag != "" {
		var err error
		config, err = freshproxy.LoadConfig(configFilenameFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not read config file")
		}
	}

	if ipFlag != "" {
		config.IP = ipFlag
	}
	if portFlag != 0 {
		config.Port = portFlag
	}
	if adminAddrFlag != "" {
		config.AdminAddr = adminAddrFlag
	}
	if capacityFlag != 0 {
		config.Capacity = capacityFlag
	}
	if originPortFlag != "" {
		config.OriginPort = originPortFlag
	}

	if config.IP == "" || config.Port == 0 {
		log.Fatal().Msg("Please specify the IP address and port to bind to")
	}
	if config.Capacity == 0 {
		config.Capacity = cache.DefaultCapacity
	}

	collector := metrics.New()
	store := cache.NewLRU(config.Capacity, func(string) {
		collector.RecordEviction()
	})
	dialer := &origin.Dialer{
		Port:        config.OriginPort,
		DialTimeout: secondsOrZero(config.DialTimeout),
		ReadTimeout: secondsOrZero(config.ReadTimeout),
	}

	proxy := freshproxy.New(freshproxy.Options{
		Store:         store,
		Dialer:        dialer,
		Logger:        &log.Logger,
		Metrics:       collector,
		ClientTimeout: secondsOrZero(config.ClientTimeout),
	})

	if config.AdminAddr != "" {
		go func() {
			log.Info().Str("addr", config.AdminAddr).Msg("Admin endpoints listening")
			if err := http.ListenAndServe(config.AdminAddr, freshproxy.AdminHandler(collector)); err != nil {
				log.Error().Err(err).Msg("Admin server failed")
			}
		}()
	}

	bindAddr := net.JoinHostPort(config.IP, fmt.Sprint(config.Port))
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", bindAddr).Msg("Could not listen")
	}
	log.Info().Str("addr", bindAddr).Int("capacity", config.Capacity).Msg("Proxy listening")

	if err := proxy.Serve(ln); err != nil {
		log.Fatal().Err(err).Msg("Proxy stopped")
	}
}

func secondsOrZero(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
