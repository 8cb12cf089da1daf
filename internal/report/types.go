package report

import (
	"runtime"
	"time"

	"github.com/google/uuid"
)

type Report struct {
	Meta        RunMeta `json:"meta"`
	Experiments []Entry `json:"experiments"`
	Totals      Totals  `json:"totals"`
}

type RunMeta struct {
	RunID       uuid.UUID       `json:"run_id"`
	Suite       string          `json:"suite"`
	OutputDir   string          `json:"output_dir"`
	Timestamp   time.Time       `json:"timestamp"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

type Entry struct {
	Experiment string      `json:"experiment"`
	InputRows  int         `json:"input_rows"`
	KeptRows   int         `json:"kept_rows"`
	Dropped    int         `json:"dropped_rows"`
	Files      []FileEntry `json:"files"`
}

type FileEntry struct {
	Path   string            `json:"path"`
	Split  map[string]string `json:"split,omitempty"`
	Series int               `json:"series"`
	Points int               `json:"points"`
}

type Totals struct {
	Experiments int `json:"experiments"`
	Files       int `json:"files"`
	Points      int `json:"points"`
	Dropped     int `json:"dropped_rows"`
}
