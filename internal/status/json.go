package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	State         string       `json:"state"`
	StateBit      int          `json:"state_bit"`
	Ready         bool         `json:"ready"`
	Faulted       bool         `json:"faulted"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	Samples       int          `json:"samples"`
	ReadErrors    int          `json:"read_errors"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the most recent pipeline output. Smoothed is absent during warm-up.
type ReadingJSON struct {
	Raw         int    `json:"raw"`
	TempX10     int    `json:"temp_x10"`
	SmoothedX10 *int   `json:"smoothed_x10,omitempty"`
	Temperature string `json:"temperature"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Unsafe int `json:"unsafe"`
	Safe   int `json:"safe"`
	Faults int `json:"faults"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HighX10     int    `json:"high_x10"`
	LowX10      int    `json:"low_x10"`
	MaxErrors   int    `json:"max_errors"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	ADCPath     string `json:"adc_path"`
	AlarmPin    int    `json:"alarm_pin"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		State:         string(snap.State),
		StateBit:      snap.State.Bit(),
		Ready:         snap.Reading.Ready,
		Faulted:       snap.Faulted,
		Samples:       snap.Samples,
		ReadErrors:    snap.ReadErrors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Unsafe: snap.Counts.Unsafe,
			Safe:   snap.Counts.Safe,
			Faults: snap.Counts.Faults,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HighX10:     int(snap.Config.HighX10),
			LowX10:      int(snap.Config.LowX10),
			MaxErrors:   snap.Config.MaxErrors,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			ADCPath:     snap.Config.ADCPath,
			AlarmPin:    snap.Config.AlarmPin,
		},
	}

	if snap.Sampled {
		r := snap.Reading
		rj := &ReadingJSON{
			Raw:         int(r.Raw),
			TempX10:     int(r.TempX10),
			Temperature: r.TempX10.String(),
		}
		if r.Ready {
			s := int(r.SmoothedX10)
			rj.SmoothedX10 = &s
			rj.Temperature = r.SmoothedX10.String()
		}
		inner.Reading = rj
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
