// Package monitoring turns a running clock into a small web server for
// live inspection and control: pause, resume, speed changes, calendar and
// pending-event state, process resource usage, and CPU profiles.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/frostline/gameclock/clock"
)

// Monitor allows external monitoring and controlling of a clock session.
type Monitor struct {
	clk         *clock.Clock
	portNumber  int
	openBrowser bool
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser opens the dashboard in the system browser once the server
// is listening.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterClock registers the clock to be monitored.
func (m *Monitor) RegisterClock(c *clock.Clock) {
	m.clk = c
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseClock)
	r.HandleFunc("/api/resume", m.resumeClock)
	r.HandleFunc("/api/speed/{value}", m.setSpeed)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/clock", m.clockState)
	r.HandleFunc("/api/calendar", m.calendarState)
	r.HandleFunc("/api/events", m.listEvents)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/inspect", m.inspectClock)
	r.HandleFunc("/", m.indexPage)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring clock session with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}
}

func (m *Monitor) pauseClock(w http.ResponseWriter, _ *http.Request) {
	m.clk.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) resumeClock(w http.ResponseWriter, _ *http.Request) {
	m.clk.Resume()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) setSpeed(w http.ResponseWriter, r *http.Request) {
	valueStr := mux.Vars(r)["value"]

	value, err := strconv.ParseFloat(valueStr, 32)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	applied := m.clk.SetSpeed(float32(value))
	fmt.Fprintf(w, "{\"speed\":%g}", applied)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%.10f}", m.clk.Now())
}

type clockRsp struct {
	TotalGameTime float64 `json:"total_game_time"`
	TotalRealTime float64 `json:"total_real_time"`
	TimeSpeed     float32 `json:"time_speed"`
	IsPaused      bool    `json:"is_paused"`
	PendingEvents int     `json:"pending_events"`
}

func (m *Monitor) clockState(w http.ResponseWriter, _ *http.Request) {
	rsp := clockRsp{
		TotalGameTime: float64(m.clk.Now()),
		TotalRealTime: float64(m.clk.RealTime()),
		TimeSpeed:     m.clk.Speed(),
		IsPaused:      m.clk.IsPaused(),
		PendingEvents: m.clk.PendingEventCount(),
	}

	writeJSON(w, rsp)
}

type calendarRsp struct {
	Day        int    `json:"day"`
	Month      int    `json:"month"`
	DayOfMonth int    `json:"day_of_month"`
	Phase      string `json:"phase"`
	Years      int    `json:"years_completed"`
}

func (m *Monitor) calendarState(w http.ResponseWriter, _ *http.Request) {
	day := m.clk.Day()
	month, dayOfMonth := clock.MonthOfDay(day)

	rsp := calendarRsp{
		Day:        day,
		Month:      month,
		DayOfMonth: dayOfMonth,
		Phase:      m.clk.CurrentPhase().String(),
		Years:      m.clk.Years(),
	}

	writeJSON(w, rsp)
}

type eventRsp struct {
	ID          uint64  `json:"id"`
	TriggerKind string  `json:"trigger_kind"`
	TriggerTime float64 `json:"trigger_time,omitempty"`
	TriggerDay  int     `json:"trigger_day,omitempty"`
}

func (m *Monitor) listEvents(w http.ResponseWriter, _ *http.Request) {
	pending := m.clk.PendingEvents()

	rsp := make([]eventRsp, 0, len(pending))
	for _, evt := range pending {
		e := eventRsp{ID: evt.ID}

		switch evt.Trigger.Kind {
		case clock.TriggerAtDay:
			e.TriggerKind = "day"
			e.TriggerDay = evt.Trigger.Day
		default:
			e.TriggerKind = "time"
			e.TriggerTime = float64(evt.Trigger.Time)
		}

		rsp = append(rsp, e)
	}

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (m *Monitor) inspectClock(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.clk)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>gameclock monitor</title></head>
<body>
<h1>gameclock monitor</h1>
<ul>
<li><a href="/api/clock">clock state</a></li>
<li><a href="/api/calendar">calendar</a></li>
<li><a href="/api/events">pending events</a></li>
<li><a href="/api/resource">process resources</a></li>
</ul>
</body>
</html>
`

func (m *Monitor) indexPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, err := fmt.Fprint(w, indexHTML)
	dieOnErr(err)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
