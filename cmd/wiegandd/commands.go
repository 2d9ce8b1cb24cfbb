package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mbalug7/go-wiegand/pkg/card"
	"github.com/mbalug7/go-wiegand/pkg/forward"
	"github.com/mbalug7/go-wiegand/pkg/hal"
	"github.com/mbalug7/go-wiegand/pkg/sim"
	"github.com/mbalug7/go-wiegand/pkg/wiegand"
)

var (
	configPath string
	simFrames  int
	simBits    int
)

var rootCmd = &cobra.Command{
	Use:   "wiegandd",
	Short: "Wiegand reader daemon",
	Long: `Decodes Wiegand access-control readers attached to GPIO lines.

Frames are validated, logged, and optionally forwarded over a serial
port. Use 'simulate' to exercise the decoder without hardware.`,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	runCmd.Flags().StringVar(&configPath, "config", "wiegandd.yaml", "Path to the YAML configuration file")
	simulateCmd.Flags().IntVar(&simFrames, "frames", 10, "Number of random frames to replay")
	simulateCmd.Flags().IntVar(&simBits, "bits", 26, "Frame length to synthesize (26 or 34)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
}

type serialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type config struct {
	GPIOChip  string        `yaml:"gpiochip"`
	D0Pin     int           `yaml:"d0_pin"`
	D1Pin     int           `yaml:"d1_pin"`
	Bits      int           `yaml:"bits"`       // 0 means automatic length detection
	Decode    bool          `yaml:"decode"`     // check and strip parity bits
	TimeoutMS int           `yaml:"timeout_ms"` // 0 keeps the default
	Serial    *serialConfig `yaml:"serial"`     // optional forwarding port
}

func loadConfig(path string) (config, error) {
	cfg := config{
		GPIOChip: "gpiochip0",
		Decode:   true,
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.D0Pin == cfg.D1Pin {
		return cfg, fmt.Errorf("d0_pin and d1_pin must differ")
	}
	if cfg.Bits < 0 || cfg.Bits > wiegand.MaxBits {
		return cfg, fmt.Errorf("bits must be between 0 and %d", wiegand.MaxBits)
	}
	if cfg.Serial != nil && cfg.Serial.Baud <= 0 {
		return cfg, fmt.Errorf("serial baud rate must be positive")
	}
	return cfg, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Decode frames from a reader attached to GPIO lines",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	var sink *forward.Serial
	if cfg.Serial != nil {
		sink, err = forward.NewSerial(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	var opts []wiegand.Option
	if cfg.TimeoutMS > 0 {
		opts = append(opts, wiegand.WithTimeout(uint32(cfg.TimeoutMS)))
	}
	device := wiegand.NewDevice(opts...)

	err = device.RegisterDataCb(func(data []byte, bits int) {
		if c, cardErr := card.Parse(data, bits); cardErr == nil {
			log.Infow("card received", "facility", c.Facility, "number", c.Number, "bits", bits)
		} else if key, keyErr := card.Key(data, bits); keyErr == nil {
			log.Infow("key pressed", "key", string(key))
		} else {
			log.Infow("frame received", "bits", bits, "payload", hex.EncodeToString(data))
		}
		if sink != nil {
			if err := sink.Data(data, bits); err != nil {
				log.Errorw("serial forward failed", "error", err)
			}
		}
	})
	if err != nil {
		return err
	}
	err = device.RegisterDataErrorCb(func(kind wiegand.DataError, raw []byte, bits int) {
		log.Warnw("frame discarded", "reason", kind.Error(), "bits", bits, "raw", hex.EncodeToString(raw))
		if sink != nil {
			if err := sink.DataError(kind, raw, bits); err != nil {
				log.Errorw("serial forward failed", "error", err)
			}
		}
	})
	if err != nil {
		return err
	}
	err = device.RegisterStateCb(func(connected bool) {
		log.Infow("reader state changed", "connected", connected)
		if sink != nil {
			if err := sink.State(connected); err != nil {
				log.Errorw("serial forward failed", "error", err)
			}
		}
	})
	if err != nil {
		return err
	}

	expected := wiegand.LengthAny
	if cfg.Bits > 0 {
		expected = uint8(cfg.Bits)
	}
	device.Begin(expected, cfg.Decode)

	monitor, err := hal.NewMonitor(cfg.GPIOChip, cfg.D0Pin, cfg.D1Pin, device)
	if err != nil {
		return fmt.Errorf("failed to start GPIO monitor: %w", err)
	}
	log.Infow("wiegandd started", "gpiochip", cfg.GPIOChip, "d0", cfg.D0Pin, "d1", cfg.D1Pin, "bits", cfg.Bits)

	signalInterruptChan := make(chan os.Signal, 1)
	signal.Notify(signalInterruptChan, os.Interrupt, syscall.SIGTERM)
	<-signalInterruptChan

	if err := monitor.Close(); err != nil {
		return fmt.Errorf("failed to close GPIO monitor: %w", err)
	}
	device.End()
	return nil
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay random frames through an in-process decoder",
	Long: `Synthesizes parity-correct frames for random cards and replays
their pulse trains through a decoder, no reader attached.`,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	device := wiegand.NewDevice()
	err = device.RegisterDataCb(func(data []byte, bits int) {
		c, err := card.Parse(data, bits)
		if err != nil {
			log.Errorw("undecodable payload", "bits", bits, "error", err)
			return
		}
		log.Infow("card decoded", "facility", c.Facility, "number", c.Number)
	})
	if err != nil {
		return err
	}
	err = device.RegisterDataErrorCb(func(kind wiegand.DataError, raw []byte, bits int) {
		log.Errorw("frame discarded", "reason", kind.Error(), "bits", bits)
	})
	if err != nil {
		return err
	}

	device.Begin(uint8(simBits), true)
	for i := 0; i < simFrames; i++ {
		c, err := sim.RandomCard(simBits)
		if err != nil {
			return err
		}
		frame, err := sim.Encode(c, simBits)
		if err != nil {
			return err
		}
		log.Infow("replaying card", "facility", c.Facility, "number", c.Number)
		sim.Replay(device, frame)
	}
	return nil
}
