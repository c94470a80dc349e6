// Command thermal-sensor samples an ADC temperature channel, smooths and classifies
// it, drives a safety output line and publishes state changes to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/thermal-sensor/internal/adc"
	"github.com/sweeney/thermal-sensor/internal/gpio"
	"github.com/sweeney/thermal-sensor/internal/logic"
	"github.com/sweeney/thermal-sensor/internal/mqtt"
	"github.com/sweeney/thermal-sensor/internal/report"
	"github.com/sweeney/thermal-sensor/internal/selftest"
	"github.com/sweeney/thermal-sensor/internal/status"
	"github.com/sweeney/thermal-sensor/internal/web"
)

type options struct {
	poll           time.Duration
	adcPath        string
	high, low      int
	maxErrors      int
	alarmPin       int
	alarmActiveLow bool
	broker         string
	heartbeat      time.Duration
	printState     bool
	httpAddr       string
}

func main() {
	var o options
	flag.DurationVar(&o.poll, "poll", 10*time.Millisecond, "ADC sampling interval")
	flag.StringVar(&o.adcPath, "adc", adc.DefaultPath, "IIO raw value file for the temperature channel")
	flag.IntVar(&o.high, "high", 1000, "UNSAFE threshold in tenths of a degree")
	flag.IntVar(&o.low, "low", 950, "SAFE recovery threshold in tenths of a degree")
	flag.IntVar(&o.maxErrors, "max-errors", 10, "Consecutive read errors before forcing UNSAFE (0 to disable)")
	flag.IntVar(&o.alarmPin, "alarm-pin", gpio.DefaultPinAlarm, "BCM pin driven while UNSAFE (-1 to disable)")
	flag.BoolVar(&o.alarmActiveLow, "alarm-active-low", false, "Drive the alarm pin low while UNSAFE")
	flag.StringVar(&o.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.BoolVar(&o.printState, "print-state", false, "Print one converted sample and exit")
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	junit := flag.String("junit", "", "Run the built-in self-test, write a JUnit report to this path and exit")

	flag.Parse()

	if *junit != "" {
		if err := runSelfTest(*junit, os.Stdout, os.Stderr); err != nil {
			log.Fatalf("self-test: %v", err)
		}
		return
	}

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// validateThresholds converts the flag values to TempX10. The state machine
// does not check its thresholds, so the daemon rejects an inverted pair here.
func validateThresholds(high, low int) (logic.TempX10, logic.TempX10, error) {
	for _, v := range []int{high, low} {
		if v < math.MinInt16 || v > math.MaxInt16 {
			return 0, 0, fmt.Errorf("threshold %d out of range", v)
		}
	}
	if low > high {
		return 0, 0, fmt.Errorf("low threshold %d above high threshold %d", low, high)
	}
	return logic.TempX10(high), logic.TempX10(low), nil
}

// runSelfTest writes the JUnit report to path and returns an error if any check failed.
func runSelfTest(path string, stdout, stderr io.Writer) error {
	results := selftest.Run()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteJUnit(f, selftest.Suite, results); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	for _, r := range results {
		if !r.Passed {
			fmt.Fprintf(stderr, "FAIL: %s: %s\n", r.Name, r.Message)
		}
	}
	if n := report.Failures(results); n > 0 {
		return fmt.Errorf("%d of %d checks failed", n, len(results))
	}
	fmt.Fprintf(stdout, "PASS: %d tests\n", len(results))
	return nil
}

func run(o options) error {
	high, low, err := validateThresholds(o.high, o.low)
	if err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	cfg := logic.MonitorConfig{HighX10: high, LowX10: low, MaxConsecutiveErrors: o.maxErrors}

	// Initialize ADC
	reader, err := adc.NewSysfsReader(o.adcPath)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer reader.Close()

	// Print state mode
	if o.printState {
		raw, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		temp := logic.ADCToTempX10(raw)
		fmt.Printf("ADC: %d, temperature: %s C\n", raw, temp)
		return nil
	}

	// Initialize alarm output
	var alarm gpio.Alarm = gpio.NopAlarm{}
	if o.alarmPin >= 0 {
		realAlarm, err := gpio.NewRealAlarm(o.alarmPin, o.alarmActiveLow)
		if err != nil {
			return fmt.Errorf("init alarm: %w", err)
		}
		alarm = realAlarm
	}
	defer alarm.Close()

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(o.broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      o.poll.Milliseconds(),
		HighX10:     high,
		LowX10:      low,
		MaxErrors:   o.maxErrors,
		HeartbeatMs: o.heartbeat.Milliseconds(),
		Broker:      o.broker,
		HTTPPort:    o.httpAddr,
		ADCPath:     o.adcPath,
		AlarmPin:    o.alarmPin,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}
	tracker.SetMQTTConnected(publisher.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: poll=%v adc=%s high=%s low=%s broker=%s heartbeat=%v",
		o.poll, o.adcPath, high, low, o.broker, o.heartbeat)

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, alarm, publisher, publisher, tracker, cfg, o.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(reader adc.Reader, alarm gpio.Alarm, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cfg logic.MonitorConfig, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	monitor := logic.NewMonitor(cfg, startTime)

	if err := alarm.Set(monitor.CurrentState()); err != nil {
		log.Printf("alarm error: %v", err)
	}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			var events []logic.Event
			raw, err := reader.Read()
			if err != nil {
				log.Printf("adc read error: %v", err)
				if tracker != nil {
					tracker.AddReadError()
				}
				events = monitor.ReadFailed(t)
			} else {
				_, events = monitor.Process(logic.Input{Raw: raw, Time: t})
			}

			for _, event := range events {
				log.Printf("event: %s (temp=%s reason=%s)", event.Type, event.TempX10, event.Reason)
				if err := alarm.Set(event.State); err != nil {
					log.Printf("alarm error: %v", err)
				}
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if tracker != nil {
				tracker.Update(monitor)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if hbData := monitor.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v state=%s smoothed=%s unsafe=%d safe=%d faults=%d",
					hbData.Uptime, monitor.CurrentState(), hbData.Reading.SmoothedX10,
					hbData.Counts.Unsafe, hbData.Counts.Safe, hbData.Counts.Faults)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
