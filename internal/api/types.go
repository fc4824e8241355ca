package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// DependencyStatus captures availability of an external host tool.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool               `json:"running"`
	PID           int                `json:"pid"`
	StartedAt     string             `json:"startedAt,omitempty"`
	FeedSelection string             `json:"feedSelection"`
	DatabasePath  string             `json:"databasePath"`
	LockFilePath  string             `json:"lockFilePath"`
	Dependencies  []DependencyStatus `json:"dependencies"`
}

// Capabilities describes what this daemon build and configuration allow.
type Capabilities struct {
	Version         string `json:"version"`
	RunnerEnabled   bool   `json:"runnerEnabled"`
	JournalFeed     bool   `json:"journalFeed"`
	DmesgFeed       bool   `json:"dmesgFeed"`
	ServicesListing bool   `json:"servicesListing"`
}

// HostSummary is the transport form of a host snapshot.
type HostSummary struct {
	Hostname      string  `json:"hostname"`
	Platform      string  `json:"platform"`
	Kernel        string  `json:"kernel"`
	UptimeSeconds uint64  `json:"uptimeSeconds"`
	Load1         float64 `json:"load1"`
	Load5         float64 `json:"load5"`
	Load15        float64 `json:"load15"`
	CPUPercent    float64 `json:"cpuPercent"`
	CPUCount      int     `json:"cpuCount"`
	MemTotal      uint64  `json:"memTotal"`
	MemUsed       uint64  `json:"memUsed"`
	MemAvailable  uint64  `json:"memAvailable"`
	SwapTotal     uint64  `json:"swapTotal"`
	SwapUsed      uint64  `json:"swapUsed"`
	DiskTotal     uint64  `json:"diskTotal"`
	DiskUsed      uint64  `json:"diskUsed"`
	DiskPercent   float64 `json:"diskPercent"`
	NetSentBytes  uint64  `json:"netSentBytes"`
	NetRecvBytes  uint64  `json:"netRecvBytes"`
	PowerWatts    float64 `json:"powerWatts"`
	PowerKnown    bool    `json:"powerKnown"`
	CollectedAt   string  `json:"collectedAt"`
}

// ProcessRow is one entry of the top-process table.
type ProcessRow struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	User       string  `json:"user,omitempty"`
	CPUPercent float64 `json:"cpuPercent"`
	MemPercent float64 `json:"memPercent"`
	ReadBytes  uint64  `json:"readBytes"`
	WriteBytes uint64  `json:"writeBytes"`
}

// ProcessListResponse wraps the top-process table.
type ProcessListResponse struct {
	Processes []ProcessRow `json:"processes"`
}

// ServiceUnit is one running systemd service.
type ServiceUnit struct {
	Name        string `json:"name"`
	Active      string `json:"active"`
	Description string `json:"description,omitempty"`
}

// ServiceListResponse wraps the services view.
type ServiceListResponse struct {
	Services []ServiceUnit `json:"services"`
}

// DiagnosticsResponse is a snapshot of the diagnostics feed.
type DiagnosticsResponse struct {
	Selection string   `json:"selection"`
	Lines     []string `json:"lines"`
}

// RunRequest asks the daemon to execute a shell command.
type RunRequest struct {
	Command string `json:"command"`
}

// RunRecord is one executed command, live or from history.
type RunRecord struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	ExitCode   int    `json:"exitCode"`
	TimedOut   bool   `json:"timedOut"`
	Output     string `json:"output,omitempty"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
	DurationMS int64  `json:"durationMs"`
}

// RunListResponse wraps command history.
type RunListResponse struct {
	Runs []RunRecord `json:"runs"`
}

// LogTailResponse carries daemon log lines and the resume offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// ErrorResponse is the body of non-2xx API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
