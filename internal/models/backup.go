package models

// Backup retention bounds (number of most-recent backups kept when pruning).
const (
	MinBackupRetention     = 3
	MaxBackupRetention     = 20
	DefaultBackupRetention = 5
)

// Backup schedule kinds.
const (
	ScheduleDaily    = "daily"
	ScheduleWeekly   = "weekly"
	ScheduleInterval = "interval"
)

// IntervalChoices is the closed set of valid interval schedules, in minutes.
var IntervalChoices = []int{5, 30, 60, 180, 720}

// DefaultIntervalMinutes is used for unrecognized interval values.
const DefaultIntervalMinutes = 60

// BackupConfig controls automatic settings backups.
type BackupConfig struct {
	Directory string         `json:"directory,omitempty"`
	Retention int            `json:"retention"`
	Auto      bool           `json:"auto"`
	Schedule  BackupSchedule `json:"schedule"`
}

// BackupSchedule is a tagged variant: Kind selects which fields apply.
// daily uses Hour/Minute, weekly adds Weekday (0=Sunday), interval uses
// EveryMinutes only.
type BackupSchedule struct {
	Kind         string `json:"kind"`
	Hour         int    `json:"hour"`
	Minute       int    `json:"minute"`
	Weekday      int    `json:"weekday"`
	EveryMinutes int    `json:"every_minutes"`
}

// DefaultBackupSchedule is the schedule assigned when none can be derived
// from stored input: a daily backup at 03:00.
func DefaultBackupSchedule() BackupSchedule {
	return BackupSchedule{Kind: ScheduleDaily, Hour: 3, Minute: 0}
}
