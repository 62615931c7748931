package metrics

import (
	"path/filepath"

	"glusterctl/pkg/executor"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "glusterctl"

// Outcome label values
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeError     = "error"
)

// Recorder counts external commands on a private registry. It implements
// executor.Observer.
type Recorder struct {
	registry *prometheus.Registry

	commandCounter  *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
}

func NewRecorder() (*Recorder, error) {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		commandCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "External commands run, by program, subcommand and outcome",
			},
			[]string{"program", "subcommand", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Wall time of external commands that ran to completion",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"program", "subcommand"},
		),
	}

	for _, c := range []prometheus.Collector{r.commandCounter, r.commandDuration} {
		if err := r.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metric")
		}
	}
	return r, nil
}

// subcommand returns the first two non-flag arguments, e.g. "volume create".
func subcommand(args []string) string {
	var parts []string
	for _, a := range args {
		if len(parts) == 2 {
			break
		}
		if len(a) > 0 && a[0] == '-' {
			continue
		}
		parts = append(parts, a)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return parts[0] + " " + parts[1]
}

func (r *Recorder) Observe(cmd executor.Command, res *executor.Result, err error) {
	program := filepath.Base(cmd.Program)
	sub := ""
	if program == "gluster" {
		sub = subcommand(cmd.Args)
	}

	outcome := OutcomeSucceeded
	switch {
	case err != nil:
		outcome = OutcomeError
	case res == nil || !res.Succeeded:
		outcome = OutcomeFailed
	}
	r.commandCounter.WithLabelValues(program, sub, outcome).Inc()

	if res != nil {
		r.commandDuration.WithLabelValues(program, sub).Observe(res.Duration.Seconds())
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current values in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrap(err, "failed to write metrics textfile")
	}
	return nil
}
