package store

import "time"

// LaunchRecord is one entry in an agent's launch history.
type LaunchRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	Success         bool      `json:"success"`
	DurationSeconds float64   `json:"durationSeconds"`
	SessionType     string    `json:"sessionType"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
	SessionID       string    `json:"sessionId,omitempty"`
}

// AgentStats accumulates usage for one agent name across runs.
type AgentStats struct {
	TotalLaunches          uint           `json:"totalLaunches"`
	SuccessfulLaunches     uint           `json:"successfulLaunches"`
	FailedLaunches         uint           `json:"failedLaunches"`
	AverageDurationSeconds float64        `json:"averageDurationSeconds"`
	LastLaunch             *time.Time     `json:"lastLaunch,omitempty"`
	IsFavorite             bool           `json:"isFavorite"`
	LaunchHistory          []LaunchRecord `json:"launchHistory"`
}

func newAgentStats() *AgentStats {
	return &AgentStats{LaunchHistory: []LaunchRecord{}}
}

// RecordStart counts a launch attempt beginning at now.
func (s *AgentStats) RecordStart(now time.Time) {
	s.TotalLaunches++
	t := now
	s.LastLaunch = &t
}

// RecordCompletion appends rec to the history, bumps the matching outcome
// counter and recomputes the average duration over the whole history.
func (s *AgentStats) RecordCompletion(rec LaunchRecord) {
	if rec.Success {
		s.SuccessfulLaunches++
	} else {
		s.FailedLaunches++
	}
	s.LaunchHistory = append(s.LaunchHistory, rec)

	var total float64
	for _, h := range s.LaunchHistory {
		total += h.DurationSeconds
	}
	s.AverageDurationSeconds = total / float64(len(s.LaunchHistory))
}

// SuccessRate is the percentage of launches that completed successfully.
func (s *AgentStats) SuccessRate() float64 {
	if s == nil || s.TotalLaunches == 0 {
		return 0
	}
	return 100 * float64(s.SuccessfulLaunches) / float64(s.TotalLaunches)
}
