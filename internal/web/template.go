package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/thermal-sensor/internal/logic"
	"github.com/sweeney/thermal-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"celsius": func(t logic.TempX10) string {
		return t.String() + " °C"
	},
	"stateClass": func(s logic.State) string {
		if s == logic.StateUnsafe {
			return "unsafe"
		}
		return "safe"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Thermal Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.safe { color: green; font-weight: bold; }
.unsafe { color: red; font-weight: bold; }
.pending { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Thermal Sensor</h1>

<h2>State</h2>
<table>
<tr><th>Safety</th><td id="state" class="{{stateClass .State}}">{{.State}}</td></tr>
{{if .Faulted}}<tr><th>Sensor</th><td class="unsafe">FAULT</td></tr>{{end}}
{{if .Sampled}}<tr><th>Smoothed</th><td>{{if .Reading.Ready}}{{celsius .Reading.SmoothedX10}}{{else}}<span class="pending">warming up</span>{{end}}</td></tr>
<tr><th>Last sample</th><td>{{celsius .Reading.TempX10}} (raw {{.Reading.Raw}})</td></tr>
{{else}}<tr><th>Reading</th><td class="pending">no samples yet</td></tr>{{end}}
<tr><th>Trip / recover</th><td>{{celsius .Config.HighX10}} / {{celsius .Config.LowX10}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>UNSAFE</th><td>{{.Counts.Unsafe}}</td></tr>
<tr><th>SAFE</th><td>{{.Counts.Safe}}</td></tr>
<tr><th>Sensor faults</th><td>{{.Counts.Faults}}</td></tr>
<tr><th>Read errors</th><td>{{.ReadErrors}}</td></tr>
<tr><th>Samples</th><td>{{.Samples}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>ADC</th><td>{{.Config.ADCPath}}</td></tr>
<tr><th>Alarm pin</th><td>{{if lt .Config.AlarmPin 0}}disabled{{else}}{{.Config.AlarmPin}}{{end}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
